package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/config"
	"github.com/zero-day-ai/metaprop/serialization"
	"github.com/zero-day-ai/metaprop/store"
	"github.com/zero-day-ai/metaprop/validator"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	*streams
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(s *streams) *cobra.Command {
	a := &app{streams: s}
	rootCmd := &cobra.Command{
		Use:           "metaprop",
		Short:         "Convert and store property tree documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to metaprop.yaml or a directory holding it")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newPutCmd(a),
		newGetCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newSchemaCmd(a),
		newHealthCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.err, &slog.HandlerOptions{Level: level}))

	switch {
	case a.configPath != "":
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	default:
		cfg, err := config.LoadFromDir(".")
		if err != nil {
			a.logger.Debug("using default configuration", "reason", err)
			cfg = config.Default()
		}
		a.cfg = cfg
	}
	a.cfg.ApplyEnv()
	return a.cfg.Validate()
}

// codecFlag returns the codec named by a flag, or the configured codec when the flag is
// empty.
func (a *app) codecFlag(name string) (codec.Codec, error) {
	if name == "" {
		return a.cfg.GetCodec()
	}
	return codec.ByName(name)
}

// modeFlag returns the mode named by a flag, or def when the flag is empty.
func modeFlag(name string, def serialization.Mode) (serialization.Mode, error) {
	if name == "" {
		return def, nil
	}
	return serialization.ParseMode(name)
}

// openStore opens the configured store; the caller closes it.
func (a *app) openStore(cmd *cobra.Command) (*store.DocumentStore, error) {
	return a.cfg.OpenStore(cmd.Context(), a.logger)
}

// readInput reads the named file, or standard input for "" and "-".
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(a.in)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// writeOutput writes data followed by a newline unless it already ends with one.
func (a *app) writeOutput(data []byte) error {
	if _, err := a.out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(a.out, "\n")
		return err
	}
	return nil
}

// reportValidation prints the localized validation messages found in err.
func (a *app) reportValidation(err error) {
	cat, cerr := validator.NewDefaultCatalog()
	var resolver validator.Resolver = validator.DefaultResolver{}
	if cerr == nil {
		resolver = validator.NewCatalogResolver(a.cfg.GetLocale(), cat)
	}
	for _, m := range validationMessages(err) {
		fmt.Fprintln(a.err, "  -", resolver.Resolve(m))
	}
}

// validationMessages collects the messages of every validation error in the tree of err.
func validationMessages(err error) []validator.Message {
	var out []validator.Message
	switch x := err.(type) {
	case *validator.ValidationError:
		return x.Messages()
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			out = append(out, validationMessages(e)...)
		}
	case interface{ Unwrap() error }:
		out = validationMessages(x.Unwrap())
	}
	return out
}
