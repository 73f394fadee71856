package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands after PersistentPreRunE.
type app struct {
	configPath string
	settings   settings
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "contentcal",
		Short:         "Generate social media content calendars as PDF",
		Long:          "contentcal asks a language model for a month of social media posts, extracts a structured calendar from the answer and renders it as a branded PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is ./"+defaultConfigFile+" when present)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("model", "", "model spec, e.g. ollama/llama3.2:3b?temperature=0.9 (env CONTENTCAL_MODEL)")
	flags.String("endpoint", "", "OpenAI-compatible API root (env CONTENTCAL_ENDPOINT)")
	flags.String("api-key", "", "API key for the model provider (env CONTENTCAL_API_KEY)")
	flags.Float64("temperature", 0, "sampling temperature (env CONTENTCAL_TEMPERATURE)")
	flags.Int("retries", 0, "retries per crew stage (env CONTENTCAL_RETRIES)")
	flags.Duration("timeout", 0, "overall timeout for model calls, 0 for none")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	// a bootstrap logger so env loading can report problems before settings exist
	boot := newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
	loadEnv(boot)

	s, err := resolveSettings(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = s
	a.log = newLogger(cmd.ErrOrStderr(), s.level())
	slog.SetDefault(a.log)
	a.log.Debug("settings resolved", "model", s.Model, "output", s.Output, "retries", s.Retries, "timeout", s.Timeout)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.settings.modelConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			key := "(not set)"
			if cfg.APIKey != "" {
				key = "(set)"
			}
			fmt.Fprintf(out, "model:       %s\n", cfg.String())
			fmt.Fprintf(out, "provider:    %s\n", cfg.Provider)
			fmt.Fprintf(out, "endpoint:    %s\n", cfg.Endpoint)
			fmt.Fprintf(out, "api key:     %s\n", key)
			fmt.Fprintf(out, "output:      %s\n", a.settings.Output)
			fmt.Fprintf(out, "retries:     %d\n", a.settings.Retries)
			fmt.Fprintf(out, "timeout:     %s\n", a.settings.Timeout)
			fmt.Fprintf(out, "log level:   %s\n", a.settings.level())
			return nil
		},
	}
}
