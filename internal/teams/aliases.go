package teams

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadAliases reads a YAML alias table mapping alternate spellings to
// canonical names. An empty path yields an empty table.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias file %s: %w", path, err)
	}

	var file struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing alias file %s: %w", path, err)
	}
	return file.Aliases, nil
}
