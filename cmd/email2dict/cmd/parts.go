package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email2dict/message"
	"github.com/zostay/go-email2dict/message/header"
	"github.com/zostay/go-email2dict/message/walker"
)

func newPartsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parts <file>",
		Short: "Print the part tree of a message",
		Long: `Print the part tree of a message. Each part is labeled with its path,
the dotted indexes used to report errors in sub-parts. The top-level message
is labeled ".".`,
		Args: cobra.ExactArgs(1),
		RunE: a.parts,
	}
	cmd.Flags().String("path", "", "print only the part at this path and its sub-parts")
	return cmd
}

func mediaType(p message.Part) string {
	ct, err := p.GetHeader().GetContentType()
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		return "(none)"
	case err != nil:
		return "(invalid)"
	}
	return ct.MediaType()
}

func (a *app) parts(cmd *cobra.Command, args []string) error {
	root, err := walker.ParsePath(cmd.Flag("path").Value.String())
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	msg, err := message.Parse(f, message.WithUnlimitedRecursion())
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	top, ok := walker.Find(msg, root)
	if !ok {
		return fmt.Errorf("%s: no part at path %s", args[0], root)
	}

	out := cmd.OutOrStdout()
	var w walker.PartWalker = func(p walker.Path, part message.Part) error {
		full := append(append(walker.Path{}, root...), p...)
		label := "."
		if full.Depth() > 0 {
			label = full.String()
		}

		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", p.Depth()), label, mediaType(part))
		if part.IsMultipart() {
			line += fmt.Sprintf(" (%d parts)", len(part.GetParts()))
		}
		_, err := fmt.Fprintln(out, line)
		return err
	}

	return w.Walk(top)
}
