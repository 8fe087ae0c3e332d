package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Alia5/bindgen/internal/version"
)

type Version struct {
	out io.Writer `kong:"-"`
}

// Run is called by Kong when the version command is executed.
func (v *Version) Run() error {
	ver, err := version.Get()
	if err != nil {
		return err
	}
	out := v.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, ver)
	return err
}
