package proc

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/srodi/usercpu/pkg/types"
)

// Owner returns the real uid from /proc/PID/status. On any failure it returns
// types.UnknownUID with the cause.
func (r *Reader) Owner(pid int) (uint32, error) {
	f, err := r.fsys.Open(pidPath(pid, "status"))
	if err != nil {
		return types.UnknownUID, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(scanner.Text(), "Uid:")
		if !ok {
			continue
		}
		// Uid: real effective saved filesystem
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return types.UnknownUID, fmt.Errorf("pid %d: empty Uid line: %w", pid, ErrNoOwner)
		}
		uid, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil || uint32(uid) == types.UnknownUID {
			return types.UnknownUID, fmt.Errorf("pid %d: bad uid %q: %w", pid, fields[0], ErrNoOwner)
		}
		return uint32(uid), nil
	}
	if err := scanner.Err(); err != nil {
		return types.UnknownUID, fmt.Errorf("reading status for pid %d: %w", pid, err)
	}
	return types.UnknownUID, fmt.Errorf("pid %d: %w", pid, ErrNoOwner)
}
