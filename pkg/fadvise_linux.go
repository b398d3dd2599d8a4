//go:build linux

package dupetree

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the first window of the file is read front to back.
func adviseSequential(file *os.File, window int64) {
	if err := unix.Fadvise(int(file.Fd()), 0, window, unix.FADV_SEQUENTIAL); err != nil {
		VerboseLog(3, "fadvise sequential %s: %v", file.Name(), err)
	}
}

// adviseDontNeed drops the sampled pages so a scan doesn't evict the page cache.
func adviseDontNeed(file *os.File) {
	if err := unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_DONTNEED); err != nil {
		VerboseLog(3, "fadvise dontneed %s: %v", file.Name(), err)
	}
}
