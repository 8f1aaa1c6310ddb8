package common

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/infofinder/constants"
)

// TermsFile is the on-disk shape of a search terms file. JSON files parse too,
// since JSON is a subset of YAML.
type TermsFile struct {
	Terms []string `yaml:"terms" json:"terms"`
}

// TermsFileSchema returns the JSON schema a terms file must satisfy.
func TermsFileSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"terms"},
		"properties": map[string]any{
			"terms": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
}

// LoadTerms reads the ordered term list from a YAML or JSON file.
// Order is kept and duplicates are not removed.
func LoadTerms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError(CodeConfig, "read terms file", err)
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("parse terms file %s", path), err)
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("terms file %s is not JSON-compatible", path), err)
	}
	if err := ValidateJSONAgainstSchema(TermsFileSchema(), asJSON); err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("terms file %s", path), err)
	}

	var tf TermsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("decode terms file %s", path), err)
	}
	if tf.Terms == nil {
		tf.Terms = []string{}
	}
	return tf.Terms, nil
}

// ResolveTerms fills c.Search.Terms from the configured file, or from the
// built-in list when no file is configured.
func (c *Config) ResolveTerms() error {
	if c.Search.TermsFile == "" {
		c.Search.Terms = constants.SearchTerms()
		return nil
	}
	terms, err := LoadTerms(c.Search.TermsFile)
	if err != nil {
		return err
	}
	c.Search.Terms = terms
	return nil
}
