package proc

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/srodi/usercpu/pkg/types"
)

// Field numbers as documented in proc(5), counting the pid as field 1.
const (
	fieldState     = 3
	fieldUTime     = 14
	fieldSTime     = 15
	fieldStartTime = 22
)

// Stat reads and parses /proc/PID/stat.
func (r *Reader) Stat(pid int) (types.ProcStat, error) {
	data, err := fs.ReadFile(r.fsys, pidPath(pid, "stat"))
	if err != nil {
		return types.ProcStat{}, err
	}
	st, err := ParseStat(string(data))
	if err != nil {
		return types.ProcStat{}, fmt.Errorf("pid %d: %w", pid, err)
	}
	return st, nil
}

// Times returns only the cumulative user and system counters of a process.
func (r *Reader) Times(pid int) (types.CPUTimes, error) {
	st, err := r.Stat(pid)
	if err != nil {
		return types.CPUTimes{}, err
	}
	return st.Times, nil
}

// ParseStat parses one stat line. The command name runs from the first '(' to
// the ')' that brings the nesting depth back to zero, so names containing
// spaces or parentheses do not shift the positional fields that follow.
func ParseStat(line string) (types.ProcStat, error) {
	var st types.ProcStat

	open := strings.IndexByte(line, '(')
	if open < 0 {
		return st, fmt.Errorf("%w: no command name", ErrMalformedStat)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(line[:open]))
	if err != nil {
		return st, fmt.Errorf("%w: bad pid: %v", ErrMalformedStat, err)
	}

	depth, end := 0, -1
scan:
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		}
	}
	if end < 0 {
		return st, fmt.Errorf("%w: unbalanced command name", ErrMalformedStat)
	}

	fields := strings.Fields(line[end+1:])
	if len(fields) < fieldSTime-fieldState+1 {
		return st, fmt.Errorf("%w: %d fields after command name", ErrMalformedStat, len(fields))
	}
	field := func(n int) string { return fields[n-fieldState] }

	utime, err := strconv.ParseUint(field(fieldUTime), 10, 64)
	if err != nil {
		return st, fmt.Errorf("%w: utime: %v", ErrMalformedStat, err)
	}
	stime, err := strconv.ParseUint(field(fieldSTime), 10, 64)
	if err != nil {
		return st, fmt.Errorf("%w: stime: %v", ErrMalformedStat, err)
	}
	if len(fields) > fieldStartTime-fieldState {
		start, err := strconv.ParseUint(field(fieldStartTime), 10, 64)
		if err != nil {
			return st, fmt.Errorf("%w: starttime: %v", ErrMalformedStat, err)
		}
		st.StartTime = types.Ticks(start)
	}

	st.PID = pid
	st.Comm = line[open+1 : end]
	st.State = field(fieldState)[0]
	st.Times = types.CPUTimes{User: types.Ticks(utime), System: types.Ticks(stime)}
	return st, nil
}
