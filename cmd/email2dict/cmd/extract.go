package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email2dict/record"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file...]",
		Short: "Print the record of each message file or of standard input",
		RunE:  a.extract,
	}
}

func (a *app) extractFile(name string) (*record.Record, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return record.ExtractReader(f, a.cfg.RecordOptions()...)
}

func (a *app) extract(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		rec, err := record.ExtractReader(cmd.InOrStdin(), a.cfg.RecordOptions()...)
		if err != nil {
			return fmt.Errorf("standard input: %w", err)
		}
		return a.print(out, rec)
	}

	failed := 0
	for _, name := range args {
		rec, err := a.extractFile(name)
		if err != nil {
			a.log.Error("extract failed", "file", name, "error", err)
			failed++
			continue
		}

		a.log.Debug("extracted", "file", name, "headers", rec.Headers.Len())
		if err := a.print(out, rec); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed", failed, len(args))
	}
	return nil
}
