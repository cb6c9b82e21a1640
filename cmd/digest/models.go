package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"daily-summary/internal/app"
)

func newModelsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the provider offers and the one that would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app(cmd.Context(), app.Options{SkipHistory: true})
			if err != nil {
				return err
			}
			defer a.Close()

			selector := a.Summarizer.Selector()
			models, err := selector.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			picked, err := selector.Pick(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Provider: %s\n", s.cfg.LLM.Provider)
			for _, m := range models {
				marker := " "
				if m == picked {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, m)
			}
			fmt.Fprintf(out, "Selected: %s\n", picked)
			return nil
		},
	}
}
