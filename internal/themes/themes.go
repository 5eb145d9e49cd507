// ABOUTME: Embedded catalog of unlock themes keyed by command token
// ABOUTME: Parsed from table.yaml and validated before the bot starts

package themes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed table.yaml
var rawTable []byte

// Phrasing selects the reply template for a theme's unlock value.
type Phrasing string

const (
	PhrasingCode Phrasing = "code" // "<Name> unlock code: <value>"
	PhrasingDate Phrasing = "date" // "<Name> unlock date: <value>"
	PhrasingKey  Phrasing = "key"  // "<Name> unlock key: <value>"
)

// Theme is one entry of the unlock catalog.
type Theme struct {
	Token    string   `yaml:"token"`    // command word, unique within the catalog
	Action   string   `yaml:"action"`   // action value sent to the unlock service
	Name     string   `yaml:"name"`     // display name used in replies
	Phrasing Phrasing `yaml:"phrasing"` // reply template selector
	Gold     bool     `yaml:"gold"`     // action may return a secondary gold key
}

// Table is the closed set of themes, preserving catalog order.
type Table struct {
	themes  []Theme
	byToken map[string]Theme
}

// Load parses the embedded catalog and checks its shape. A malformed
// catalog is a build defect, so callers should treat an error as fatal.
func Load() (*Table, error) {
	var doc struct {
		Themes []Theme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(rawTable, &doc); err != nil {
		return nil, fmt.Errorf("parsing theme catalog: %w", err)
	}
	if len(doc.Themes) == 0 {
		return nil, fmt.Errorf("theme catalog is empty")
	}

	t := &Table{
		themes:  doc.Themes,
		byToken: make(map[string]Theme, len(doc.Themes)),
	}
	for _, th := range doc.Themes {
		if th.Token == "" || th.Action == "" || th.Name == "" {
			return nil, fmt.Errorf("theme catalog entry %q is incomplete", th.Token)
		}
		switch th.Phrasing {
		case PhrasingCode, PhrasingDate, PhrasingKey:
		default:
			return nil, fmt.Errorf("theme %q has unknown phrasing %q", th.Token, th.Phrasing)
		}
		if _, dup := t.byToken[th.Token]; dup {
			return nil, fmt.Errorf("theme catalog has duplicate token %q", th.Token)
		}
		t.byToken[th.Token] = th
	}
	return t, nil
}

// Lookup returns the theme for a command token.
func (t *Table) Lookup(token string) (Theme, bool) {
	th, ok := t.byToken[token]
	return th, ok
}

// Tokens returns all catalog tokens in declaration order.
func (t *Table) Tokens() []string {
	tokens := make([]string, len(t.themes))
	for i, th := range t.themes {
		tokens[i] = th.Token
	}
	return tokens
}
