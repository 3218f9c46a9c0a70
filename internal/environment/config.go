package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads KEY=VALUE pairs from the given env files (".env" when none are
// given) into the process environment. Missing files are skipped and
// variables that are already set keep their value.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}
