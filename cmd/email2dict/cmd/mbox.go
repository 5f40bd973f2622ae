package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email2dict/mailbox"
	"github.com/zostay/go-email2dict/record"
)

func newMboxCmd(a *app) *cobra.Command {
	mboxCmd := &cobra.Command{
		Use:   "mbox <file>",
		Short: "Print the record of every message in an mbox file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.mbox,
	}

	mboxCmd.Flags().IntVarP(&a.workers, "workers", "w", 1, "number of messages to extract at once")

	return mboxCmd
}

func (a *app) mbox(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	total, failed := 0, 0
	handle := func(i int, rec *record.Record, err error) error {
		total++
		if err != nil {
			a.log.Warn("skipping message", "file", args[0], "index", i, "error", err)
			failed++
			return nil
		}
		return a.print(out, rec)
	}

	if a.cfg.Extract.Workers == 1 {
		err = mailbox.Each(f, handle, a.cfg.RecordOptions()...)
	} else {
		var res []mailbox.Result
		res, err = mailbox.ExtractAll(cmd.Context(), f, a.cfg.Extract.Workers, a.cfg.RecordOptions()...)
		for _, r := range res {
			if err = handle(r.Index, r.Record, r.Err); err != nil {
				break
			}
		}
	}

	if err != nil {
		return err
	}

	a.log.Info("mailbox done", "file", args[0], "messages", total, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed", failed, total)
	}
	return nil
}
