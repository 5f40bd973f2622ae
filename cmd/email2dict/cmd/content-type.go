package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email2dict/message/header/param"
)

func newContentTypeCmd(a *app) *cobra.Command {
	ctCmd := &cobra.Command{
		Use:   "content-type",
		Short: "Parse and format Content-type values",
	}

	ctCmd.AddCommand(&cobra.Command{
		Use:   "parse <value>",
		Short: "Print the parts of a Content-type value",
		Args:  cobra.ExactArgs(1),
		RunE:  a.parseContentType,
	})

	ctCmd.AddCommand(&cobra.Command{
		Use:   "format <type/subtype> [name=value...]",
		Short: "Print a Content-type value built from its parts",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.formatContentType,
	})

	return ctCmd
}

func (a *app) parseContentType(cmd *cobra.Command, args []string) error {
	ct, err := param.ParseContentType(args[0])
	if err != nil {
		return fmt.Errorf("invalid content type: %w", err)
	}
	return a.print(cmd.OutOrStdout(), ct)
}

func (a *app) formatContentType(cmd *cobra.Command, args []string) error {
	mt, st, _ := strings.Cut(args[0], "/")

	kv := make([]string, 0, 2*(len(args)-1))
	for _, arg := range args[1:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("parameter %q is not name=value", arg)
		}
		kv = append(kv, k, v)
	}

	s, err := param.NewContentType(mt, st, param.NewParams(kv...)).Format()
	if err != nil {
		return fmt.Errorf("cannot format content type: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}
