package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/metaprop"
	"github.com/zero-day-ai/metaprop/serialization"
	"github.com/zero-day-ai/metaprop/store"
)

func newPutCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "put [FILE]",
		Short: "Store a MetaObject document and print its ID",
		Long: `Reads a MetaObject document from FILE or standard input and stores it. The tree
under compositeProperty must be in META_DATA mode. A missing id is generated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codecFlag(in)
			if err != nil {
				return err
			}
			data, err := a.readInput(args)
			if err != nil {
				return err
			}
			o, err := store.NewEncoder(c).Unmarshal(data)
			if err != nil {
				return metaprop.NewSerializationError("put", err)
			}
			if o.ID == uuid.Nil {
				o.ID = uuid.New()
			}

			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer metaprop.CloseWithLog(st, a.logger, "store")

			if err := st.Put(cmd.Context(), o); err != nil {
				if errors.Is(err, metaprop.ErrInvalidObject) {
					a.reportValidation(err)
				}
				return err
			}
			_, err = fmt.Fprintln(a.out, o.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input format: json, yaml or proto")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var mode, out string
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Print a stored MetaObject with its tree in the given mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}
			m, err := modeFlag(mode, a.cfg.GetMode())
			if err != nil {
				return err
			}
			c, err := a.codecFlag(out)
			if err != nil {
				return err
			}

			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer metaprop.CloseWithLog(st, a.logger, "store")

			o, err := st.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			doc, err := store.NewEncoder(c).Document(o)
			if err != nil {
				return err
			}
			if o.CompositeProperty != nil {
				tree, err := serialization.NewSerializer(c).EncodeTree(o.CompositeProperty, serialization.Options{Mode: m})
				if err != nil {
					return err
				}
				doc.Set(store.FieldCompositeProperty, tree)
			}
			data, err := c.Render(doc)
			if err != nil {
				return err
			}
			return a.writeOutput(data)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Mode of the tree (default: configured mode)")
	cmd.Flags().StringVar(&out, "out", "", "Output format: json, yaml or proto")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the IDs of all stored MetaObjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer metaprop.CloseWithLog(st, a.logger, "store")

			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				if _, err := fmt.Fprintln(a.out, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored MetaObject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer metaprop.CloseWithLog(st, a.logger, "store")
			return st.Delete(cmd.Context(), id)
		},
	}
}
