package depot

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WorkloadConfig declares workloads as ordered lists of system names.
//
//	default: update
//	workloads:
//	  - name: update
//	    systems: [movement, gravity]
type WorkloadConfig struct {
	Default   string          `yaml:"default"`
	Workloads []WorkloadEntry `yaml:"workloads"`
}

type WorkloadEntry struct {
	Name    string   `yaml:"name"`
	Systems []string `yaml:"systems"`
}

// LoadWorkloadConfig decodes and validates a YAML workload configuration.
// Unknown fields are rejected.
func LoadWorkloadConfig(r io.Reader) (WorkloadConfig, error) {
	var cfg WorkloadConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return WorkloadConfig{}, fmt.Errorf("decode workload config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return WorkloadConfig{}, err
	}
	return cfg, nil
}

func (cfg WorkloadConfig) Validate() error {
	seen := make(map[string]struct{}, len(cfg.Workloads))
	for i, wl := range cfg.Workloads {
		if wl.Name == "" {
			return fmt.Errorf("workload config: workload %d has no name", i)
		}
		if _, ok := seen[wl.Name]; ok {
			return fmt.Errorf("workload config: workload %q is declared twice", wl.Name)
		}
		seen[wl.Name] = struct{}{}
	}
	if cfg.Default != "" {
		if _, ok := seen[cfg.Default]; !ok {
			return fmt.Errorf("workload config: default workload %q is not declared", cfg.Default)
		}
	}
	return nil
}

// ApplyWorkloadConfig adds every configured workload, resolving system
// names through systems. Nothing is added when a name is unknown.
func (w *World) ApplyWorkloadConfig(cfg WorkloadConfig, systems *SystemRegistry) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	resolved := make([][]System, len(cfg.Workloads))
	for i, wl := range cfg.Workloads {
		list, err := systems.resolve(wl.Systems)
		if err != nil {
			return fmt.Errorf("workload %q: %w", wl.Name, err)
		}
		resolved[i] = list
	}
	for i, wl := range cfg.Workloads {
		if err := w.AddWorkload(wl.Name, resolved[i]...); err != nil {
			return err
		}
	}
	if cfg.Default != "" {
		return w.SetDefaultWorkload(cfg.Default)
	}
	return nil
}
