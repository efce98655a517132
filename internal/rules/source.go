package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dogan7/goalsignal/models"
)

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	Rules []models.Rule `yaml:"rules"`
}

// LoadFile reads a YAML rule set and returns only the rules worth evaluating.
// Malformed files fail loudly; a silent empty rule set would look like a
// healthy run that simply found nothing.
func LoadFile(path string) ([]models.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	active := make([]models.Rule, 0, len(rf.Rules))
	seen := make(map[int]struct{}, len(rf.Rules))
	for _, r := range rf.Rules {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", r.ID, r.Name, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("rule %d (%s): duplicate id", r.ID, r.Name)
		}
		seen[r.ID] = struct{}{}
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func validate(r models.Rule) error {
	if len(r.PrimaryOdds) == 0 {
		return fmt.Errorf("no primary odds condition")
	}
	if len(r.Predictions) == 0 {
		return fmt.Errorf("no predictions")
	}
	if r.BaseConfidence < 1 || r.BaseConfidence > maxConfidence {
		return fmt.Errorf("base confidence %d out of range [1, %d]", r.BaseConfidence, maxConfidence)
	}
	switch r.Importance {
	case "", models.ImportanceNormal, models.ImportanceImportant, models.ImportanceSpecial:
	default:
		return fmt.Errorf("unknown importance %q", r.Importance)
	}
	return nil
}
