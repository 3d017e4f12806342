package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"studygen/internal/api"
	"studygen/internal/format"
	"studygen/internal/pipeline"
	"studygen/internal/summarizer"
	"studygen/internal/tui"
)

func newSummarizeCommand(a *app) *cobra.Command {
	var (
		req    pipeline.SummaryRequest
		ratio  float64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Extract the most important sentences",
		Long:  "Summarize scores every sentence and keeps the best ones in document order.\n" + inputUsage(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ratio") {
				req.Ratio = &ratio
			}
			summary, err := a.pipeline().Summarize(text, req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			return writeText(cmd.OutOrStdout(), format.Summary(summary))
		},
	}
	cmd.Flags().StringVarP(&req.Algorithm, "algorithm", "a", "", "Scoring algorithm (see studygen algorithms)")
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 0, "Fraction of sentences to keep")
	cmd.Flags().IntVarP(&req.SentenceCount, "sentences", "n", 0, "Exact number of sentences to keep (overrides --ratio)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newFlashcardsCommand(a *app) *cobra.Command {
	var (
		count  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "flashcards FILE",
		Short: "Generate definition, question and fill-in-the-blank cards",
		Long:  inputUsage(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = a.cfg.Flashcards.Count
			}
			set, err := a.pipeline().Flashcards(text, count)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), set)
			}
			return writeText(cmd.OutOrStdout(), format.Flashcards(set))
		},
	}
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Number of cards to request (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newQuizCommand(a *app) *cobra.Command {
	var (
		count   int
		answers bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "quiz FILE",
		Short: "Generate a practice quiz",
		Long:  inputUsage(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = a.cfg.Quiz.Count
			}
			q, err := a.pipeline().Quiz(text, count)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), q)
			}
			out := format.Quiz(q)
			if answers && len(q.Items) > 0 {
				out += "\n\n" + format.AnswerKey(q)
			}
			return writeText(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Number of questions to request (default from config)")
	cmd.Flags().BoolVar(&answers, "answers", false, "Append the answer key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newInsightsCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "insights FILE",
		Short: "Report reading statistics and a suggested algorithm",
		Long:  inputUsage(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			in, err := a.pipeline().Insights(text)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), in)
			}
			return writeText(cmd.OutOrStdout(), format.Insights(in))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the summarization algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, algo := range summarizer.Algorithms {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), algo); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newTUICommand(a *app) *cobra.Command {
	var (
		opts  tui.Options
		ratio float64
	)
	cmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Browse the summary, flashcards, quiz and insights interactively",
		Long:  inputUsage(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				opts.Flashcards = a.cfg.Flashcards.Count
			}
			if !cmd.Flags().Changed("questions") {
				opts.Questions = a.cfg.Quiz.Count
			}
			if cmd.Flags().Changed("ratio") {
				opts.Summary.Ratio = &ratio
			}
			progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(cmd.Context())}
			opts.Title = filepath.Base(args[0])
			if args[0] == "-" {
				// stdin carried the notes, so keys come from the terminal
				opts.Title = "stdin"
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			m := tui.New(a.pipeline(), text, opts)
			_, err = tea.NewProgram(m, progOpts...).Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Summary.Algorithm, "algorithm", "a", "", "Scoring algorithm")
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 0, "Fraction of sentences to keep")
	cmd.Flags().IntVarP(&opts.Flashcards, "count", "c", 0, "Number of flashcards (default from config)")
	cmd.Flags().IntVarP(&opts.Questions, "questions", "q", 0, "Number of quiz questions (default from config)")
	return cmd
}

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			srv, err := api.NewServer(a.cfg, a.log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
