package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// ArrayContains returns the index of the first element matching fn
func ArrayContains[T any](set []T, fn func(elem T) bool) (int, bool) {
	for idx, elem := range set {
		if fn(elem) {
			return idx, true
		}
	}
	return -1, false
}

// UnmarshalFile decodes a YAML or JSON file into dest, honoring json struct tags
func UnmarshalFile(path string, dest any, validate bool) error {
	if path == "" {
		return fmt.Errorf("file path not provided")
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read file[%s]: %s", path, err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal file[%s]: %s", path, err)
	}

	if validate {
		return Validate(dest)
	}
	return nil
}

func IsValidSubcommand(available []*cobra.Command, sub string) bool {
	_, found := ArrayContains(available, func(cmd *cobra.Command) bool {
		return cmd.Name() == sub || strings.EqualFold(cmd.Use, sub)
	})
	return found
}
