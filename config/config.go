// Package config provides the optional YAML run profile shared by both
// pipelines: per-tool overrides and run defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the root of a run profile. All fields are optional; zero
// values fall back to built-in defaults at resolution time.
type Profile struct {
	Threads   int    `yaml:"threads"`
	MemoryGB  int    `yaml:"memory_gb"`
	MinUTRLen int    `yaml:"min_utr_len"`
	BlastDB   string `yaml:"blast_db"`

	// Tools maps a tool's default name (e.g. "Trinity") to its override.
	Tools map[string]ToolRef `yaml:"tools"`
}

// ToolRef overrides how one external tool is invoked. In YAML a tool can be
// written as a plain string (the replacement path) or as a struct:
//
//	tools:
//	  Trinity: /opt/trinity/Trinity
//	  trimmomatic:
//	    path: /usr/local/bin/trimmomatic
//	    extra: [LEADING:3, TRAILING:3]
type ToolRef struct {
	Path  string   `yaml:"path"`
	Extra []string `yaml:"extra"`
}

// UnmarshalYAML allows a tool override to be a string (path only) or a struct.
func (t *ToolRef) UnmarshalYAML(value *yaml.Node) error {
	var pathOnly string
	if err := value.Decode(&pathOnly); err == nil {
		t.Path = pathOnly
		return nil
	}
	type raw ToolRef
	return value.Decode((*raw)(t))
}

// Parse parses YAML bytes into a Profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &p, nil
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return Parse(data)
}

// Resolve returns the binary to invoke for the tool with the given default
// name, plus any extra arguments from the profile. A nil Profile resolves
// every tool to its default.
func (p *Profile) Resolve(name string) (bin string, extra []string) {
	if p == nil || p.Tools == nil {
		return name, nil
	}
	ref, ok := p.Tools[name]
	if !ok {
		return name, nil
	}
	bin = ref.Path
	if bin == "" {
		bin = name
	}
	return bin, ref.Extra
}
