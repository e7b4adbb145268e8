package naming

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"anthologiser/internal/fileutil"
)

// Merge lists alternative labels that all denote the work called Name.
type Merge struct {
	Name     string   `json:"name" yaml:"name"`
	Versions []string `json:"versions" yaml:"versions"`
}

// AliasFile is the on-disk shape of an alias table.
type AliasFile struct {
	Merges   []Merge  `json:"merges" yaml:"merges"`
	Removals []string `json:"removals" yaml:"removals"`
}

// Aliases resolves alternative labels and removes noise substrings. A nil
// *Aliases is valid and behaves as an empty table.
type Aliases struct {
	names    map[string]string
	removals *regexp.Regexp
}

// NewAliases compiles an alias table.
func NewAliases(file AliasFile) (*Aliases, error) {
	a := &Aliases{names: make(map[string]string)}
	for _, merge := range file.Merges {
		name := strings.TrimSpace(merge.Name)
		if name == "" {
			return nil, fmt.Errorf("merge entry without name")
		}
		for _, alias := range merge.Versions {
			a.names[alias] = name
		}
	}

	quoted := make([]string, 0, len(file.Removals))
	for _, removal := range file.Removals {
		if removal == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(removal))
	}
	if len(quoted) > 0 {
		re, err := regexp.Compile(strings.Join(quoted, "|"))
		if err != nil {
			return nil, fmt.Errorf("compile removals: %w", err)
		}
		a.removals = re
	}
	return a, nil
}

// ParseAliases decodes an alias table. YAML is selected by a .yaml or .yml
// name; anything else is read as JSON that may carry comments and trailing
// commas.
func ParseAliases(name string, data []byte) (*Aliases, error) {
	var file AliasFile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse alias table: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("parse alias table: %w", err)
		}
	}
	return NewAliases(file)
}

// LoadAliases reads an alias table from path. An empty path or a missing file
// yields an empty table.
func LoadAliases(path string) (*Aliases, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	aliases, err := ParseAliases(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return aliases, nil
}

// Lookup returns the canonical name for an alternative label.
func (a *Aliases) Lookup(label string) (string, bool) {
	if a == nil {
		return "", false
	}
	name, ok := a.names[label]
	return name, ok
}

// Len returns the number of alternative labels known.
func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// RemovalPattern returns the alternation applied to labels, or "".
func (a *Aliases) RemovalPattern() string {
	if re := a.removalRegexp(); re != nil {
		return re.String()
	}
	return ""
}

func (a *Aliases) removalRegexp() *regexp.Regexp {
	if a == nil {
		return nil
	}
	return a.removals
}
