// Package scanner adjusts bufio.Scanner split functions for the multipart
// parser.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue is a special SplitFunc signal that asks the wrapper created by
// MakeSplitFuncExitByAdvance to run the split function again on the remaining
// data instead of returning to the scanner. Split functions use it to move
// from one internal state to the next.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps a bufio.SplitFunc so that consuming input
// without producing a token does not end the scan.
//
// A plain bufio.Scanner stops when the split function returns an error or
// when it returns a nil token at EOF. A split function that skips data it
// does not want to return (such as a multipart preamble) would have to loop
// internally to find the next token. The wrapper does that loop instead: it
// keeps calling split on the remaining data until a token is returned, no
// progress is made, the data is used up, or an error other than ErrContinue
// is returned. The advances of every call are added together.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			// advance == 0 without ErrContinue means split wants more input.
			// len(data)-advance <= 0 means there is nothing left to split and
			// an over-advance is passed up as the scanner's error.
			if !errors.Is(err, ErrContinue) && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return totalAdvance + advance, token, err
			}

			data = data[advance:]
			totalAdvance += advance
		}
	}
}
