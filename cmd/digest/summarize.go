package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"daily-summary/internal/app"
	"daily-summary/internal/domain/entity"
	"daily-summary/internal/usecase/report"
)

func newSummarizeCmd(s *session) *cobra.Command {
	var (
		in     inputFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize text, files, URLs or feeds and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			lang, err := in.language()
			if err != nil {
				return err
			}

			a, err := s.app(cmd.Context(), app.Options{SkipHistory: true})
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Report.Preview(cmd.Context(), report.PreviewInput{
				Pasted:   in.text,
				Sources:  in.files,
				Language: lang,
			})
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), summary, output)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	return cmd
}

func printSummary(w io.Writer, summary *entity.Summary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	_, err := fmt.Fprintln(w, summary.Text)
	return err
}
