package main

import (
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/metaprop/serialization"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		from, to, in, out string
		single            bool
	)
	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Re-render a tree or property document in another mode or format",
		Long: `Reads a document from FILE or standard input and writes it in another mode and
format. --to defaults to the configured mode; --in defaults to the configured codec
and --out to --in.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromMode, err := modeFlag(from, serialization.ModeMetaData)
			if err != nil {
				return err
			}
			toMode, err := modeFlag(to, a.cfg.GetMode())
			if err != nil {
				return err
			}
			inCodec, err := a.codecFlag(in)
			if err != nil {
				return err
			}
			outCodec := inCodec
			if out != "" {
				if outCodec, err = a.codecFlag(out); err != nil {
					return err
				}
			}

			data, err := a.readInput(args)
			if err != nil {
				return err
			}
			reader := serialization.NewSerializer(inCodec)
			writer := serialization.NewSerializer(outCodec)
			a.logger.Debug("converting",
				"from", fromMode, "to", toMode,
				"in", inCodec.Name(), "out", outCodec.Name(),
				"property", single)

			var rendered []byte
			if single {
				p, err := reader.UnmarshalProperty(data, serialization.Options{Mode: fromMode})
				if err != nil {
					return err
				}
				rendered, err = writer.MarshalProperty(p, serialization.Options{Mode: toMode})
				if err != nil {
					return err
				}
			} else {
				root, err := reader.UnmarshalTree(data, serialization.Options{Mode: fromMode})
				if err != nil {
					return err
				}
				rendered, err = writer.MarshalTree(root, serialization.Options{Mode: toMode})
				if err != nil {
					return err
				}
			}
			return a.writeOutput(rendered)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Mode of the input document (default META_DATA)")
	cmd.Flags().StringVar(&to, "to", "", "Mode of the output document (default: configured mode)")
	cmd.Flags().StringVar(&in, "in", "", "Input format: json, yaml or proto")
	cmd.Flags().StringVar(&out, "out", "", "Output format: json, yaml or proto")
	cmd.Flags().BoolVar(&single, "property", false, "Treat the document as a single property instead of a tree")
	return cmd
}
