package notify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader manages target configuration from targets.yaml
 * Provides in-memory lookup for fast access
 */

// Config represents the structure of targets.yaml
type Config struct {
	Targets []TargetConfig `yaml:"targets"`
}

// TargetConfig represents a single target in the YAML file
type TargetConfig struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	MaxRetries    int      `yaml:"max_retries"`
	SigningSecret string   `yaml:"signing_secret"`
	EventTypes    []string `yaml:"event_types"`
}

// Loader holds the loaded targets
type Loader struct {
	targets map[string]*Target
	order   []string
}

// NewLoader creates a new target loader
func NewLoader() *Loader {
	return &Loader{
		targets: make(map[string]*Target),
	}
}

// Load reads and parses the targets.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading targets file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing targets YAML: %w", err)
	}

	for _, tc := range config.Targets {
		target := &Target{
			Name:          tc.Name,
			URL:           tc.URL,
			MaxRetries:    tc.MaxRetries,
			SigningSecret: tc.SigningSecret,
			EventTypes:    tc.EventTypes,
		}

		if err := target.Validate(); err != nil {
			return fmt.Errorf("validating target: %w", err)
		}

		if _, exists := l.targets[target.Name]; !exists {
			l.order = append(l.order, target.Name)
		}
		l.targets[target.Name] = target
	}

	return nil
}

// Get retrieves a target by its name
func (l *Loader) Get(name string) (*Target, error) {
	target, exists := l.targets[name]
	if !exists {
		return nil, fmt.Errorf("target not found: %s", name)
	}
	return target, nil
}

// List returns all loaded targets in file order
func (l *Loader) List() []*Target {
	targets := make([]*Target, 0, len(l.order))
	for _, name := range l.order {
		targets = append(targets, l.targets[name])
	}
	return targets
}

// Exists checks if a target name exists
func (l *Loader) Exists(name string) bool {
	_, exists := l.targets[name]
	return exists
}
