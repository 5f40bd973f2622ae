package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// marshal renders v as JSON with the configured indent.
func (a *app) marshal(v any) ([]byte, error) {
	if a.cfg.Output.Indent == 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", a.cfg.Output.Indent))
}

// print writes v to w in the configured output format.
func (a *app) print(w io.Writer, v any) error {
	if a.cfg.Output.Format == "dump" {
		dumper.Fdump(w, v)
		return nil
	}

	js, err := a.marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(append(js, '\n'))
	return err
}
