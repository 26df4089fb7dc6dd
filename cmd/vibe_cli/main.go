package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vibe-brain/internal/app"
	"vibe-brain/internal/config"
	"vibe-brain/internal/domain"
)

// appFactory construye el grafo de servicios; los tests lo reemplazan.
type appFactory func(ctx context.Context, logger *zap.Logger) (*app.App, error)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(defaultAppFactory).Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultAppFactory(ctx context.Context, logger *zap.Logger) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, logger)
}

func newRootCmd(build appFactory) *cobra.Command {
	var (
		verbose bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:          "vibe_cli",
		Short:        "Run vibe checks and matches from the terminal",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log service activity to stderr.")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print the raw JSON payload.")

	newLogger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "vibe <identity>",
			Short: "Build the profile and soul for an identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				logger := newLogger()
				defer logger.Sync()

				a, err := build(c.Context(), logger)
				if err != nil {
					return err
				}
				defer a.Close()

				p := a.Profiles.Build(c.Context(), args[0])
				if asJSON {
					return writeJSON(c.OutOrStdout(), p)
				}
				printProfile(c.OutOrStdout(), p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "match <identity>",
			Short: "Score an identity against the reference profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				logger := newLogger()
				defer logger.Sync()

				a, err := build(c.Context(), logger)
				if err != nil {
					return err
				}
				defer a.Close()

				p := a.Profiles.Build(c.Context(), args[0])
				res := a.Matches.Match(c.Context(), p)
				ref := a.Matches.Reference().Identity
				if asJSON {
					return writeJSON(c.OutOrStdout(), map[string]any{
						"user":                p.Identity,
						"match":               ref,
						"compatibility_score": res.Score,
						"ai_verdict":          res.Reason,
						"raw_score":           res.RawScore,
						"warnings":            append(p.Warnings, res.Warnings...),
					})
				}
				fmt.Fprintf(c.OutOrStdout(), "%s x %s: %d/100\n%s\n", p.Identity, ref, res.Score, res.Reason)
				printWarnings(c.OutOrStdout(), append(p.Warnings, res.Warnings...))
				return nil
			},
		},
	)
	return cmd
}

func printProfile(w io.Writer, p domain.Profile) {
	fmt.Fprintf(w, "Identity:  %s\n", p.Identity)
	fmt.Fprintf(w, "Code:      %s\n", p.ActivityDigest)
	fmt.Fprintf(w, "Likes:     %s\n", strings.Join(p.LikedTitles, ", "))
	fmt.Fprintf(w, "Playlists: %s\n", strings.Join(p.PlaylistTitles, ", "))
	fmt.Fprintf(w, "Soul:      %s\n", p.Soul)
	printWarnings(w, p.Warnings)
}

func printWarnings(w io.Writer, warnings []domain.Warning) {
	for _, warn := range warnings {
		line := fmt.Sprintf("warning: %s %s", warn.Source, warn.Kind)
		if warn.Detail != "" {
			line += ": " + warn.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
