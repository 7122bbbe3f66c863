package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/metaprop"
	"github.com/zero-day-ai/metaprop/property"
	"github.com/zero-day-ai/metaprop/schema"
	"github.com/zero-day-ai/metaprop/serialization"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		in, id string
	)
	cmd := &cobra.Command{
		Use:   "schema [FILE]",
		Short: "Print the JSON Schema of the NAME_VALUE document of a tree",
		Long: `Reads a META_DATA tree from FILE or standard input, or the tree of a stored
MetaObject with --id, and prints the JSON Schema of its NAME_VALUE document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				root *property.Composite
				err  error
			)
			if id != "" {
				root, err = a.storedTree(cmd, id)
			} else {
				root, err = a.inputTree(in, args)
			}
			if err != nil {
				return err
			}
			if root == nil {
				return fmt.Errorf("no tree to describe")
			}

			data, err := json.MarshalIndent(schema.FromTree(root), "", "  ")
			if err != nil {
				return err
			}
			return a.writeOutput(data)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input format: json, yaml or proto")
	cmd.Flags().StringVar(&id, "id", "", "Describe the tree of the stored MetaObject with this ID")
	return cmd
}

func (a *app) inputTree(in string, args []string) (*property.Composite, error) {
	c, err := a.codecFlag(in)
	if err != nil {
		return nil, err
	}
	data, err := a.readInput(args)
	if err != nil {
		return nil, err
	}
	return serialization.NewSerializer(c).UnmarshalTree(data, serialization.Options{Mode: serialization.ModeMetaData})
}

func (a *app) storedTree(cmd *cobra.Command, raw string) (*property.Composite, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid ID %q: %w", raw, err)
	}
	st, err := a.openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer metaprop.CloseWithLog(st, a.logger, "store")

	o, err := st.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	return o.CompositeProperty, nil
}
