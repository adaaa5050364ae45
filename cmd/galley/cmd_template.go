package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkproof/galley/internal/criteria"
)

func newTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect scoring template spreadsheets",
		Long: `Inspect user-supplied scoring templates before using them in an evaluation.

A template is a spreadsheet whose first sheet carries name, description and
weight columns; every row defines one weighted scoring criterion.`,
	}

	cmd.AddCommand(newTemplateValidateCommand())
	cmd.AddCommand(newTemplateShowCommand())

	return cmd
}

func newTemplateValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <template.xlsx>",
		Short: "Validate a scoring template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := criteria.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("template validation failed: %w", err)
			}

			totalWeight := 0.0
			for _, c := range cs.Criteria {
				totalWeight += c.Weight
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template OK: %d criteria, total weight %.1f\n", cs.Len(), totalWeight)
			return nil
		},
	}
}

func newTemplateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <template.xlsx>",
		Short: "List the criteria defined by a scoring template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := criteria.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Criteria (%d):\n", cs.Len())
			for i, c := range cs.Criteria {
				fmt.Fprintf(out, "  %d. %s (weight %.1f)\n", i+1, c.Name, c.Weight)
				if c.Description != "" {
					fmt.Fprintf(out, "     %s\n", c.Description)
				}
			}
			return nil
		},
	}
}
