package main

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// joinArgs joins trailing positional arguments into one question.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
