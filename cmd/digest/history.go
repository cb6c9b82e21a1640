package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"daily-summary/internal/app"
	"daily-summary/internal/domain/entity"
	"daily-summary/internal/usecase/report"
)

// HistoryOutput is one record in `history --output json`.
type HistoryOutput struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Language     string    `json:"language"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	SentEmail    bool      `json:"sent_email"`
	SentTelegram bool      `json:"sent_telegram"`
	Chunks       int       `json:"chunks"`
	Model        string    `json:"model,omitempty"`
}

func newHistoryCmd(s *session) *cobra.Command {
	var (
		limit  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List sent reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			a, err := s.app(cmd.Context(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Report.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output == "json" {
				return printHistoryJSON(cmd.OutOrStdout(), records)
			}
			return printHistoryText(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", report.DefaultHistoryLimit, fmt.Sprintf("number of records, 1-%d", report.MaxHistoryLimit))
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	return cmd
}

func printHistoryJSON(w io.Writer, records []*entity.HistoryRecord) error {
	out := make([]HistoryOutput, len(records))
	for i, r := range records {
		out[i] = HistoryOutput{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt,
			Language:     string(r.Language),
			Title:        r.Title,
			Summary:      r.Summary,
			SentEmail:    r.SentEmail,
			SentTelegram: r.SentTelegram,
			Chunks:       r.Meta.ChunkCount,
			Model:        r.Meta.Model,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printHistoryText(w io.Writer, records []*entity.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No reports sent yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLANG\tEMAIL\tTELEGRAM\tTITLE")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Language,
			yesNo(r.SentEmail),
			yesNo(r.SentTelegram),
			r.Title)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
