package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// lineDiff writes a line-oriented diff from before to after, headed by name,
// and reports whether they differ.
func lineDiff(w io.Writer, name, before, after string, colored bool) (bool, error) {
	if before == after {
		return false, nil
	}
	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToChars(before, after)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMain(a, b, false), lines)

	paint := func(f func(string, ...any) string, s string) string {
		if !colored {
			return s
		}
		return f("%s", s)
	}
	var sb strings.Builder
	sb.WriteString(paint(color.New(color.Bold).SprintfFunc(), "--- "+name) + "\n")
	sb.WriteString(paint(color.New(color.Bold).SprintfFunc(), "+++ "+name+" (formatted)") + "\n")
	for i := range diffs {
		diff := &diffs[i]
		var (
			prefix string
			f      func(string, ...any) string
		)
		switch diff.Type {
		case diffpatch.DiffDelete:
			prefix, f = "-", color.RedString
		case diffpatch.DiffInsert:
			prefix, f = "+", color.GreenString
		case diffpatch.DiffEqual:
			prefix = " "
		}
		for _, ln := range strings.SplitAfter(diff.Text, "\n") {
			if ln == "" {
				continue
			}
			ln = prefix + strings.TrimSuffix(ln, "\n")
			if f != nil {
				ln = paint(f, ln)
			}
			sb.WriteString(ln + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return true, err
}
