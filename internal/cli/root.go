// Package cli wires the study pipeline into the studygen command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"studygen/internal/config"
	"studygen/internal/loader"
	"studygen/internal/logger"
	"studygen/internal/pipeline"
	"studygen/internal/tokenizer"
)

// app holds the state shared by every subcommand once the root has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.AppConfig
	log      zerolog.Logger
	closer   io.Closer
	settings pipeline.Settings
}

// NewRootCommand builds the studygen command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "studygen",
		Short: "Turn study notes into summaries, flashcards and quizzes",
		Long: `Studygen reads plain text, Markdown, PDF or DOCX notes and generates
extractive summaries, flashcards, practice quizzes and reading insights.
Everything runs locally without network access or learned models.

Pass "-" as the file to read from standard input.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to YAML config file (default ./config.yaml or ~/.config/studygen/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(newSummarizeCommand(a))
	root.AddCommand(newFlashcardsCommand(a))
	root.AddCommand(newQuizCommand(a))
	root.AddCommand(newInsightsCommand(a))
	root.AddCommand(newAlgorithmsCommand())
	root.AddCommand(newTUICommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg  *config.AppConfig
		path string
		err  error
	)
	if a.configPath == "" {
		cfg, path, err = config.LoadDefault()
	} else {
		path = a.configPath
		cfg, err = config.Load(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	log, closer, err := logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	settings, err := pipeline.SettingsFrom(cfg)
	if err != nil {
		_ = closer.Close()
		return err
	}
	a.cfg, a.log, a.closer, a.settings = cfg, log, closer, settings
	a.log.Debug().Str("config", path).Str("command", cmd.Name()).Msg("config loaded")
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.New(a.settings, a.log)
}

// readInput loads the named file, or standard input when name is "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name != "-" {
		return loader.Load(name)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return tokenizer.Normalize(loader.Text(data)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(s, "\n"))
	return err
}

func inputUsage() string {
	return "FILE is one of " + strings.Join(loader.Extensions, ", ") + " or - for stdin"
}
