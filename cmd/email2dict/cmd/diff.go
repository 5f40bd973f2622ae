package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// ErrRecordsDiffer is returned by the diff command when the records are not
// the same.
var ErrRecordsDiffer = errors.New("records differ")

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file> <file>",
		Short: "Compare the records of two messages line by line",
		Args:  cobra.ExactArgs(2),
		RunE:  a.diff,
	}
}

func (a *app) diff(cmd *cobra.Command, args []string) error {
	var docs [2]string
	for i, name := range args {
		rec, err := a.extractFile(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		js, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		docs[i] = string(js) + "\n"
	}

	ra, rb, lines := lineRunes(docs[0], docs[1])
	diffs := diffmatchpatch.New().DiffMainRunes(ra, rb, false)

	changed, err := writeLineDiff(cmd.OutOrStdout(), diffs, lines)
	if err != nil {
		return err
	}
	if changed {
		return ErrRecordsDiffer
	}
	return nil
}

// lineRune returns the rune standing for the nth distinct line, skipping the
// surrogate range, which does not survive conversion to a string.
func lineRune(n int) rune {
	r := rune(n)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

// lineRunes encodes both documents with one rune per line, so that a
// character diff of the results is a line diff of the documents. The
// returned lines map each rune back to its line.
func lineRunes(a, b string) ([]rune, []rune, map[rune]string) {
	index := map[string]rune{}
	lines := map[rune]string{}

	encode := func(doc string) []rune {
		var rs []rune
		for _, line := range strings.SplitAfter(doc, "\n") {
			if line == "" {
				continue
			}

			r, ok := index[line]
			if !ok {
				r = lineRune(len(index))
				index[line] = r
				lines[r] = line
			}
			rs = append(rs, r)
		}
		return rs
	}

	return encode(a), encode(b), lines
}

// writeLineDiff prints the deleted and inserted lines prefixed with - or +
// and reports whether there were any.
func writeLineDiff(w io.Writer, diffs []diffmatchpatch.Diff, lines map[rune]string) (bool, error) {
	changed := false
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}

		changed = true
		for _, r := range d.Text {
			if _, err := io.WriteString(w, prefix+lines[r]); err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}
