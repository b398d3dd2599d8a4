//go:build !linux

package dupetree

import "os"

func adviseSequential(file *os.File, window int64) {}

func adviseDontNeed(file *os.File) {}
