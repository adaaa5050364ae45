package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkproof/galley/internal/models"
	"github.com/inkproof/galley/internal/projectconfig"
	"github.com/inkproof/galley/internal/reporting"
	"github.com/inkproof/galley/internal/storage"
)

func newReportCommand() *cobra.Command {
	var outputPath string
	var htmlPath string

	cmd := &cobra.Command{
		Use:   "report <result>",
		Short: "Re-render a report from a stored evaluation result",
		Long: `Render the markdown report for a previously saved evaluation result.

The argument is a local result file (plain or compressed JSON, as written by
evaluate --output or --store) or a blob:// storage key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCommandE(cmd, args[0], outputPath, htmlPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write an HTML report to this file")

	return cmd
}

func reportCommandE(cmd *cobra.Command, arg, outputPath, htmlPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := loadResult(ctx, arg)
	if err != nil {
		return err
	}

	md := reporting.Markdown(result)
	if outputPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), md)
	} else {
		if err := os.WriteFile(outputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to: %s\n", outputPath)
	}

	if htmlPath != "" {
		html, err := reporting.HTML(result)
		if err != nil {
			return fmt.Errorf("rendering HTML report: %w", err)
		}
		if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "HTML report written to: %s\n", htmlPath)
	}

	return nil
}

func loadResult(ctx context.Context, arg string) (*models.EvaluationResult, error) {
	if key, ok := strings.CutPrefix(arg, blobPrefix); ok {
		project, err := projectconfig.Load(".")
		if err != nil {
			return nil, err
		}
		store, err := storage.Create(storage.Backend(project.Storage.Backend), project.Storage.Options)
		if err != nil {
			return nil, fmt.Errorf("configuring storage: %w", err)
		}
		return storage.ReadResult(ctx, store, key)
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}
	return storage.DecodeResult(data)
}
