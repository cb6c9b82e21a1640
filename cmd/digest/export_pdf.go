package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daily-summary/internal/app"
)

func newExportPDFCmd(s *session) *cobra.Command {
	var (
		id      int64
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export-pdf",
		Short: "Write a history record as a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app(cmd.Context(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.Report.ExportPDF(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, doc, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s (%d bytes)\n", outPath, len(doc))
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "history record id")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
