package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/freeresearch/internal/app"
	"github.com/hyperifyio/freeresearch/internal/report"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Research a query once and write the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			formatName, _ := cmd.Flags().GetString("format")
			format, err := report.ParseFormat(formatName)
			if err != nil || format == report.FormatHTML {
				return fmt.Errorf("unsupported format %q: use json, markdown, pdf or docx", formatName)
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			defer a.Close()

			rep, err := a.Research(cmd.Context(), strings.Join(args, " "))
			switch {
			case errors.Is(err, app.ErrNoResults):
				log.Warn().Err(err).Msg("no results")
			case err != nil:
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out, _ := cmd.Flags().GetString("output"); out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := report.Write(w, rep, format); err != nil {
				return err
			}
			log.Info().Int("findings", len(rep.Findings)).Int("degraded", rep.DegradedCount()).Msg("report written")
			return nil
		},
	}
	cmd.Flags().String("format", "markdown", "json, markdown, pdf or docx")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	return cmd
}
