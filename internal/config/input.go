// Package config loads the engine's input dataset from yaml files
// produced by the external data-loading collaborator.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// InputParser handles parsing of dataset files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a dataset from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var dataset domain.Dataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateDataset(&dataset); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	// The annual aggregate is part of the input contract, but a file
	// that omits it still loads: the period map reconstructs it.
	if dataset.AnnualRevenue.IsZero() {
		for _, v := range dataset.PeriodRevenue {
			dataset.AnnualRevenue = dataset.AnnualRevenue.Add(v)
		}
	}
	return &dataset, nil
}

// ValidateDataset checks the structural requirements of a dataset.
// Value-level messiness (zero months, missing periods) is the engine's
// job to degrade around, not the parser's to reject.
func (ip *InputParser) ValidateDataset(dataset *domain.Dataset) error {
	if len(dataset.Accounts) == 0 {
		return fmt.Errorf("no accounts provided")
	}

	seen := make(map[string]bool, len(dataset.Accounts))
	for i, acct := range dataset.Accounts {
		if err := validateCode(acct.Code); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		if seen[acct.Code] {
			return fmt.Errorf("account %d: duplicate code %s", i, acct.Code)
		}
		seen[acct.Code] = true
	}
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return fmt.Errorf("code is required")
	}
	for _, segment := range strings.Split(code, ".") {
		if segment == "" {
			return fmt.Errorf("code %q has an empty segment", code)
		}
	}
	return nil
}
