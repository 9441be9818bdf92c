// Package script defines the ritual script: the ordered reflection levels,
// their prompts, and the guard budgets a ritual runs with. A script can be
// loaded from YAML or JSON to retune the pond without rebuilding it.
package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pond/internal/guard"
)

// Focus is one reflection level of the ritual.
type Focus struct {
	Name     string `json:"name" yaml:"name"`
	Hint     string `json:"hint" yaml:"hint"`
	Icon     string `json:"icon" yaml:"icon"`
	Metaphor string `json:"metaphor" yaml:"metaphor"`
	System   string `json:"system" yaml:"system"` // system prompt for round replies
}

// Script is the structured input a ritual session runs against.
type Script struct {
	Levels           []Focus      `json:"levels" yaml:"levels"`
	ClosureSystem    string       `json:"closure_system" yaml:"closure_system"`
	TransitionSystem string       `json:"transition_system" yaml:"transition_system"`
	ArtifactSystem   string       `json:"artifact_system" yaml:"artifact_system"`
	Guard            guard.Policy `json:"guard" yaml:"guard"`
	RoundsPerLevel   int          `json:"rounds_per_level" yaml:"rounds_per_level"`
}

// ValidationResult represents the outcome of a script linting pass.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// Load reads a ritual script from a file (JSON or YAML).
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	s := Default()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON script: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML script: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format: %s (use .json or .yaml)", ext)
	}

	return s, nil
}

// Validate checks the Script for completeness and quality.
func (s *Script) Validate() ValidationResult {
	res := ValidationResult{
		Valid:    true,
		Warnings: []string{},
		Errors:   []string{},
	}

	if len(s.Levels) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "At least one level is required")
	}

	for i, f := range s.Levels {
		if f.Name == "" {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("Level %d has no name", i+1))
		}
		if f.System == "" {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("Level %d has no system prompt", i+1))
		}
		if f.Metaphor == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Level %d has no metaphor; the card header will be bare", i+1))
		}
	}

	if s.TransitionSystem == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Transition prompt is required")
	}
	if s.ArtifactSystem == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Artifact prompt is required")
	}
	if s.RoundsPerLevel < 1 {
		res.Valid = false
		res.Errors = append(res.Errors, "rounds_per_level must be at least 1")
	}
	if s.Guard.ReplyWords == 0 {
		res.Warnings = append(res.Warnings, "Guard budgets are zero; replies will be emptied")
	}

	return res
}

// LevelCount returns the number of reflection levels.
func (s *Script) LevelCount() int {
	return len(s.Levels)
}
