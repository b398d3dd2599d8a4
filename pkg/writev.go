//go:build unix

package dupetree

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/google/vectorio"
)

// iovMax is the POSIX minimum for IOV_MAX; Linux and the BSDs allow at least this many.
const iovMax = 1024

// writevLines writes lines to file with as few writev calls as possible so a
// group's lines reach the terminal together.
func writevLines(file *os.File, lines []string) error {
	bufs := make([][]byte, len(lines))
	iovecs := make([]syscall.Iovec, len(lines))
	for i, line := range lines {
		bufs[i] = []byte(line + "\n")
		iovecs[i].Base = &bufs[i][0]
		iovecs[i].SetLen(len(bufs[i]))
	}

	for offset := 0; offset < len(iovecs); offset += iovMax {
		end := min(offset+iovMax, len(iovecs))

		expected := 0
		for _, buf := range bufs[offset:end] {
			expected += len(buf)
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs[offset:end])
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		if nw < expected {
			// short write (pipe or tty); finish the chunk with plain writes
			if err := writeRemainder(file, bufs[offset:end], nw); err != nil {
				return err
			}
		}
	}

	runtime.KeepAlive(bufs)
	return nil
}

func writeRemainder(file *os.File, bufs [][]byte, written int) error {
	for _, buf := range bufs {
		if written >= len(buf) {
			written -= len(buf)
			continue
		}
		if _, err := file.Write(buf[written:]); err != nil {
			return err
		}
		written = 0
	}
	return nil
}
