package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkproof/galley/internal/projectconfig"
	"github.com/inkproof/galley/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var useDefaults bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a galley.yaml project configuration",
		Long: `Create a galley.yaml project configuration through a guided wizard.

The wizard collects the chat model, endpoint, scoring limits and storage
backend, then writes a validated galley.yaml. Use --defaults to skip the
wizard and write the built-in defaults.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, useDefaults, force)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Write the default configuration without prompting")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing galley.yaml")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, useDefaults, force bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, projectconfig.ConfigFileName)
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
	}

	spec := defaultProjectSpec()
	if !useDefaults {
		collected, err := wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		spec = collected
	}

	content, err := wizard.RenderConfig(spec)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Initialized galley project:")
	fmt.Fprintf(out, "  %s\n", configPath)
	fmt.Fprintln(out, "\nSet GALLEY_OPENAI_API_KEY (or OPENAI_API_KEY) to score with a live model.")

	return nil
}

func defaultProjectSpec() *wizard.ProjectSpec {
	return &wizard.ProjectSpec{
		Model:            projectconfig.DefaultModel,
		BaseURL:          projectconfig.DefaultBaseURL,
		TimeoutSeconds:   projectconfig.DefaultTimeoutSeconds,
		MaxWorkers:       projectconfig.DefaultMaxWorkers,
		StorageBackend:   projectconfig.DefaultStorageBackend,
		StorageRoot:      projectconfig.DefaultStorageRoot,
		StorageContainer: projectconfig.DefaultContainer,
		ReportFormat:     projectconfig.DefaultReportFormat,
	}
}
