// Package projectconfig provides the ProjectConfig struct and loader for
// galley.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inkproof/galley/internal/validation"
)

// ConfigFileName is the project configuration file Load walks up looking for.
const ConfigFileName = "galley.yaml"

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultModel             = "gpt-4o-mini"
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultTimeoutSeconds    = 30
	DefaultMaxWorkers        = 4
	DefaultMaxChars          = 15000
	DefaultRequestsPerMinute = 60

	DefaultStorageBackend = "local"
	DefaultStorageRoot    = ".galley/storage"
	DefaultContainer      = "manuscripts"

	DefaultReportFormat = "markdown"
)

// StorageConfig holds the artifact store backend selection plus its
// backend-specific options (root for local, account/container for azure).
// The options stay a loose map so each backend can decode only the keys it
// understands.
type StorageConfig struct {
	Backend string         `yaml:"backend,omitempty"`
	Options map[string]any `yaml:",inline"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	Format string `yaml:"format,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from galley.yaml.
type ProjectConfig struct {
	Model             string        `yaml:"model,omitempty"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	TimeoutSeconds    int           `yaml:"timeout_seconds,omitempty"`
	MaxWorkers        int           `yaml:"max_workers,omitempty"`
	MaxChars          int           `yaml:"max_chars,omitempty"`
	RequestsPerMinute int           `yaml:"requests_per_minute,omitempty"`
	Storage           StorageConfig `yaml:"storage,omitempty"`
	Report            ReportConfig  `yaml:"report,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Model:             DefaultModel,
		BaseURL:           DefaultBaseURL,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		MaxWorkers:        DefaultMaxWorkers,
		MaxChars:          DefaultMaxChars,
		RequestsPerMinute: DefaultRequestsPerMinute,
		Storage: StorageConfig{
			Backend: DefaultStorageBackend,
			Options: map[string]any{
				"root":      DefaultStorageRoot,
				"container": DefaultContainer,
			},
		},
		Report: ReportConfig{
			Format: DefaultReportFormat,
		},
	}
}

// Load finds galley.yaml by walking up from startDir (max 10 levels),
// validates it against the embedded schema, unmarshals it, and fills in
// missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	if errs := validation.ValidateConfigBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", ConfigFileName, strings.Join(errs, "; "))
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for galley.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.TimeoutSeconds != 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.MaxWorkers != 0 {
		dst.MaxWorkers = src.MaxWorkers
	}
	if src.MaxChars != 0 {
		dst.MaxChars = src.MaxChars
	}
	if src.RequestsPerMinute != 0 {
		dst.RequestsPerMinute = src.RequestsPerMinute
	}

	// Storage
	if src.Storage.Backend != "" {
		dst.Storage.Backend = src.Storage.Backend
	}
	for k, v := range src.Storage.Options {
		dst.Storage.Options[k] = v
	}

	// Report
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
}
