package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPersona is the instruction that seeds every conversation.
const DefaultPersona = "You are a helpful Socratic tutor for computer science students. " +
	"Your purpose is to guide them to the correct answer by asking clarifying questions, " +
	"not by giving them the solution."

type personaFile struct {
	Persona string `yaml:"persona"`
}

// LoadPersona returns DefaultPersona when path is empty, otherwise the
// "persona" key of the YAML file at path.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return DefaultPersona, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}

	var pf personaFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}

	persona := strings.TrimSpace(pf.Persona)
	if persona == "" {
		return "", fmt.Errorf("persona file %s has no persona", path)
	}
	return persona, nil
}
