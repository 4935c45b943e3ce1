package proc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"strconv"
)

const scanBatch = 128

// PIDs returns a single pass over the process root. The directory is opened
// when iteration starts and closed when it ends. A failure to open or list the
// root is yielded once as (0, err) and ends the pass.
func (r *Reader) PIDs() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		dir, err := r.fsys.Open(".")
		if err != nil {
			yield(0, fmt.Errorf("opening process root: %w", err))
			return
		}
		defer dir.Close()

		lister, ok := dir.(fs.ReadDirFile)
		if !ok {
			yield(0, errors.New("process root is not a directory"))
			return
		}

		for {
			entries, err := lister.ReadDir(scanBatch)
			for _, ent := range entries {
				pid, ok := parsePID(ent.Name())
				if !ok {
					continue
				}
				if !yield(pid, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) || (err == nil && len(entries) == 0) {
				return
			}
			if err != nil {
				yield(0, fmt.Errorf("listing process root: %w", err))
				return
			}
		}
	}
}

// parsePID accepts names made only of decimal digits, which filters out
// entries like self, thread-self and sys.
func parsePID(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	pid, err := strconv.Atoi(name)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
