// Command metaprop converts property tree documents between modes and formats and
// manages MetaObjects in a document store.
//
//	metaprop convert --from META_DATA --to NAME_VALUE tree.json
//	metaprop put employee.yaml --in yaml
//	metaprop get 6f1c2a1e-3d5b-4c7a-9e2f-0a1b2c3d4e5f --mode NAME_VALUE
//	metaprop list
//	metaprop schema tree.json
//	metaprop health
//
// Settings are read from metaprop.yaml (see package config), searched from the current
// directory upwards unless --config is given.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := execRootCmd(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// streams are the standard streams of one invocation.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func execRootCmd(args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := newRootCmd(&streams{in: in, out: out, err: errOut})
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return err
	}
	return nil
}
