package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"call-analytics-server/pkg/errors"
)

// PhraseSet is an immutable set of lowercase words and phrases. It is built
// once by Load and only ever read afterwards, so any number of concurrent
// pipeline runs may share it without locking.
type PhraseSet map[string]struct{}

// Contains reports whether the set holds the given entry. Lookups are
// expected to be lowercase; Load lowercases every entry on the way in.
func (s PhraseSet) Contains(entry string) bool {
	_, ok := s[entry]
	return ok
}

// NewPhraseSet builds a PhraseSet from a list of entries, lowercasing each.
func NewPhraseSet(entries []string) PhraseSet {
	set := make(PhraseSet, len(entries))
	for _, e := range entries {
		set[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return set
}

// RuleSet bundles the two rule configurations the analytics engine consumes:
// required phrases per compliance category, and the prohibited phrase set.
// A RuleSet is loaded once at process start and treated as read-only for the
// process lifetime.
type RuleSet struct {
	// Required maps compliance category name to its phrases, in file order.
	Required map[string][]string

	// Prohibited is the lowercase prohibited word/phrase set.
	Prohibited PhraseSet
}

// ruleFile is the on-disk YAML schema.
type ruleFile struct {
	RequiredPhrases   map[string][]string `yaml:"required_phrases"`
	ProhibitedPhrases []string            `yaml:"prohibited_phrases"`
}

// Load reads and validates the rule-set YAML file at path.
func Load(logger *logrus.Logger, path string) (*RuleSet, error) {
	log := logger.WithField("component", "rules")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to read rule file %q", path))
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse rule file %q", path))
	}

	rs, err := New(file.RequiredPhrases, file.ProhibitedPhrases)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"path":               path,
		"categories":         len(rs.Required),
		"prohibited_phrases": len(rs.Prohibited),
	}).Info("Loaded analytics rule set")

	return rs, nil
}

// New validates and builds a RuleSet from already-parsed rule data.
func New(required map[string][]string, prohibited []string) (*RuleSet, error) {
	if len(required) == 0 {
		return nil, errors.NewInvalidRuleSet("required_phrases must define at least one category")
	}

	cleanRequired := make(map[string][]string, len(required))
	for category, phrases := range required {
		category = strings.TrimSpace(category)
		if category == "" {
			return nil, errors.NewInvalidRuleSet("required_phrases contains an empty category name")
		}

		cleaned := make([]string, 0, len(phrases))
		for _, phrase := range phrases {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			cleaned = append(cleaned, phrase)
		}
		if len(cleaned) == 0 {
			return nil, errors.NewInvalidRuleSet("required phrase category has no phrases",
				map[string]interface{}{"category": category})
		}
		cleanRequired[category] = cleaned
	}

	return &RuleSet{
		Required:   cleanRequired,
		Prohibited: NewPhraseSet(prohibited),
	}, nil
}
