package config

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between two configurations as JSON documents.
// API keys are masked. An empty string means the documents are identical.
func Diff(old, updated AppConfig) (string, error) {
	a, err := Marshal(old.Redacted())
	if err != nil {
		return "", err
	}

	b, err := Marshal(updated.Redacted())
	if err != nil {
		return "", err
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "current",
		ToFile:   "new",
		Context:  1,
	})
	if err != nil {
		return "", fmt.Errorf("config: diff: %w", err)
	}

	return out, nil
}
