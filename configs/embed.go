// Package configs embeds default policy files shipped with the binary.
package configs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.yaml
var embeddedPolicies embed.FS

// Names returns the list of embedded YAML policy filenames.
func Names() []string {
	entries, err := fs.Glob(embeddedPolicies, "*.yaml")
	if err != nil {
		return nil
	}
	sort.Strings(entries)
	return entries
}

// Load returns the embedded YAML policy by filename.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded policy name is empty")
	}
	data, err := fs.ReadFile(embeddedPolicies, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded policy %q: %w", name, err)
	}
	return data, nil
}
