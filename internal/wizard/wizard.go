// Package wizard collects project settings interactively and renders the
// initial galley.yaml.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/inkproof/galley/internal/projectconfig"
	"github.com/inkproof/galley/internal/validation"
)

// ProjectSpec holds all fields collected during the interactive wizard.
type ProjectSpec struct {
	Model            string
	BaseURL          string
	TimeoutSeconds   int
	MaxWorkers       int
	StorageBackend   string
	StorageRoot      string
	StorageAccount   string
	StorageContainer string
	ReportFormat     string
}

const configTemplate = `# galley project configuration
model: {{ .Model }}
base_url: {{ .BaseURL }}
timeout_seconds: {{ .TimeoutSeconds }}
max_workers: {{ .MaxWorkers }}
storage:
  backend: {{ .StorageBackend }}
{{- if eq .StorageBackend "azure" }}
  account: {{ .StorageAccount }}
  container: {{ .StorageContainer }}
{{- else }}
  root: {{ .StorageRoot }}
{{- end }}
report:
  format: {{ .ReportFormat }}
`

// RunProjectWizard runs an interactive huh form to collect project settings.
func RunProjectWizard(in io.Reader, out io.Writer) (*ProjectSpec, error) {
	var (
		model      = projectconfig.DefaultModel
		baseURL    = projectconfig.DefaultBaseURL
		timeoutRaw = strconv.Itoa(projectconfig.DefaultTimeoutSeconds)
		workersRaw = strconv.Itoa(projectconfig.DefaultMaxWorkers)
		backend    string
		root       = projectconfig.DefaultStorageRoot
		account    string
		container  = projectconfig.DefaultContainer
		format     string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("Chat model used for scoring (leave the API key in the environment)").
				Value(&model).
				Validate(validateNotEmpty("model")),
			huh.NewInput().
				Title("Base URL").
				Description("OpenAI-compatible endpoint").
				Value(&baseURL).
				Validate(validateNotEmpty("base URL")),
			huh.NewInput().
				Title("Scoring timeout (seconds)").
				Value(&timeoutRaw).
				Validate(validateIntRange("timeout", 1, 600)),
			huh.NewInput().
				Title("Workers").
				Description("Concurrent scoring calls (1-8)").
				Value(&workersRaw).
				Validate(validateIntRange("workers", 1, 8)),
			huh.NewSelect[string]().
				Title("Storage backend").
				Description("Where evaluation artifacts are kept").
				Options(
					huh.NewOption("local directory", "local"),
					huh.NewOption("azure blob", "azure"),
				).
				Value(&backend),
			huh.NewInput().
				Title("Local storage root").
				Value(&root),
			huh.NewInput().
				Title("Azure storage account").
				Description("Only used with the azure backend").
				Value(&account).
				Validate(func(s string) error {
					if backend == "azure" && strings.TrimSpace(s) == "" {
						return fmt.Errorf("the azure backend needs an account name")
					}
					return nil
				}),
			huh.NewInput().
				Title("Azure container").
				Value(&container),
			huh.NewSelect[string]().
				Title("Report format").
				Options(
					huh.NewOption("markdown", "markdown"),
					huh.NewOption("html", "html"),
				).
				Value(&format),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	timeout, _ := strconv.Atoi(strings.TrimSpace(timeoutRaw))
	workers, _ := strconv.Atoi(strings.TrimSpace(workersRaw))

	return &ProjectSpec{
		Model:            strings.TrimSpace(model),
		BaseURL:          strings.TrimSpace(baseURL),
		TimeoutSeconds:   timeout,
		MaxWorkers:       workers,
		StorageBackend:   backend,
		StorageRoot:      strings.TrimSpace(root),
		StorageAccount:   strings.TrimSpace(account),
		StorageContainer: strings.TrimSpace(container),
		ReportFormat:     format,
	}, nil
}

// RenderConfig renders a galley.yaml from the given spec and checks the
// result against the config schema, so the wizard can never write a file
// galley itself would refuse to load.
func RenderConfig(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("galleyyaml").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	rendered := buf.String()
	if errs := validation.ValidateConfigBytes([]byte(rendered)); len(errs) > 0 {
		return "", fmt.Errorf("rendered config failed validation: %s", strings.Join(errs, "; "))
	}
	return rendered, nil
}

func validateNotEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateIntRange(field string, min, max int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if n < min || n > max {
			return fmt.Errorf("%s must be between %d and %d", field, min, max)
		}
		return nil
	}
}
