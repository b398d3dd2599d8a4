//go:build !unix

package dupetree

import (
	"os"
	"strings"
)

func writevLines(file *os.File, lines []string) error {
	_, err := file.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}
