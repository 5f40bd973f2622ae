package mailbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/emersion/go-mbox"
	"golang.org/x/sync/errgroup"

	"github.com/zostay/go-email2dict/record"
)

// ErrStop may be returned by a Func to end Each early without an error.
var ErrStop = errors.New("stop reading mailbox")

// Func is called by Each for every message of the mailbox. The index counts
// from zero. When the message could not be extracted, rec is nil and err
// explains why.
//
// If the Func returns ErrStop, Each stops and returns nil. Any other error
// stops Each and is returned from it.
type Func func(i int, rec *record.Record, err error) error

// Each reads the messages of the mbox in order and calls fn with the Record
// of each one. A message that fails extraction does not stop the iteration
// unless fn decides it should. An error reading the mbox itself is returned.
func Each(r io.Reader, fn Func, opts ...record.Option) error {
	mr := mbox.NewReader(r)
	for i := 0; ; i++ {
		msg, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read message %d: %w", i, err)
		}

		rec, err := record.ExtractReader(msg, opts...)
		if err := fn(i, rec, err); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// Result is the outcome of extracting one message of a mailbox.
type Result struct {
	Index  int
	Record *record.Record
	Err    error
}

// ExtractAll extracts every message of the mbox using up to workers
// goroutines (1 when workers is less than 1). The results are returned in
// mailbox order and the failure of a single message is recorded in its
// Result. The returned error is set only when the mbox cannot be read or the
// context is canceled.
func ExtractAll(ctx context.Context, r io.Reader, workers int, opts ...record.Option) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	var raws [][]byte
	mr := mbox.NewReader(r)
	for {
		msg, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read message %d: %w", len(raws), err)
		}

		raw, err := io.ReadAll(msg)
		if err != nil {
			return nil, fmt.Errorf("read message %d: %w", len(raws), err)
		}
		raws = append(raws, raw)
	}

	res := make([]Result, len(raws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := record.ExtractReader(bytes.NewReader(raw), opts...)
			res[i] = Result{Index: i, Record: rec, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
