package dupetree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Report is the document written by the json and yaml formats
type Report struct {
	RunID   string           `json:"run_id" yaml:"run_id"`
	Target  string           `json:"target" yaml:"target"`
	Context string           `json:"context" yaml:"context"`
	Groups  []DuplicateGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
	Deleted []string         `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Kept    []KeptFile       `json:"kept,omitempty" yaml:"kept,omitempty"`
	Result  *RemoveResult    `json:"result,omitempty" yaml:"result,omitempty"`
}

// KeptFile records a debug-mode match: the target that would be kept and its duplicate
type KeptFile struct {
	Original  string `json:"original" yaml:"original"`
	Duplicate string `json:"duplicate" yaml:"duplicate"`
}

// ReportWriter renders listing and removal output in one of the supported formats.
// Human and fdupes output is written as events arrive; json and yaml are
// buffered into a Report and written by Flush.
type ReportWriter struct {
	out    io.Writer
	format string
	report Report
}

// NewReportWriter creates a writer for the given format
func NewReportWriter(out io.Writer, format, target, context string) (*ReportWriter, error) {
	if err := ValidateOutputFormat(format); err != nil {
		return nil, err
	}
	return &ReportWriter{
		out:    out,
		format: strings.ToLower(format),
		report: Report{
			RunID:   uuid.New().String(),
			Target:  target,
			Context: context,
		},
	}, nil
}

// RunID returns the identifier recorded in structured reports
func (rw *ReportWriter) RunID() string {
	return rw.report.RunID
}

// WriteGroups writes duplicate groups. For human output each group is the
// original on its own line followed by its duplicates indented beneath it.
func (rw *ReportWriter) WriteGroups(groups []DuplicateGroup) error {
	switch rw.format {
	case FormatHuman:
		for _, group := range groups {
			lines := make([]string, 0, len(group.Duplicates)+1)
			lines = append(lines, group.Original)
			for _, dup := range group.Duplicates {
				lines = append(lines, "    "+dup)
			}
			if err := rw.writeLines(lines); err != nil {
				return err
			}
		}
	case FormatFdupes:
		for i, group := range groups {
			lines := make([]string, 0, len(group.Duplicates)+2)
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, group.Original)
			lines = append(lines, group.Duplicates...)
			if err := rw.writeLines(lines); err != nil {
				return err
			}
		}
	default:
		rw.report.Groups = append(rw.report.Groups, groups...)
	}
	return nil
}

// Deleted reports a removed duplicate
func (rw *ReportWriter) Deleted(path string) error {
	if rw.structured() {
		rw.report.Deleted = append(rw.report.Deleted, path)
		return nil
	}
	return rw.writeLines([]string{path})
}

// Kept reports, in debug mode, the target that is retained for a duplicate
func (rw *ReportWriter) Kept(original, duplicate string) error {
	if rw.structured() {
		rw.report.Kept = append(rw.report.Kept, KeptFile{Original: original, Duplicate: duplicate})
		return nil
	}
	return rw.writeLines([]string{fmt.Sprintf("keeping %s (duplicate %s)", original, duplicate)})
}

// Flush writes the buffered json or yaml document. result may be nil for listings.
func (rw *ReportWriter) Flush(result *RemoveResult) error {
	if !rw.structured() {
		return nil
	}
	rw.report.Result = result

	switch rw.format {
	case FormatJSON:
		encoder := json.NewEncoder(rw.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rw.report); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(rw.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(rw.report); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return encoder.Close()
	}
	return nil
}

func (rw *ReportWriter) structured() bool {
	return rw.format == FormatJSON || rw.format == FormatYAML
}

func (rw *ReportWriter) writeLines(lines []string) error {
	if file, ok := rw.out.(*os.File); ok {
		return writevLines(file, lines)
	}
	_, err := io.WriteString(rw.out, strings.Join(lines, "\n")+"\n")
	return err
}
