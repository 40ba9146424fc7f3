package service

import (
	"sort"
	"strings"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// OverrideIndex maps credentials configured as <PREFIX>_<ENVNAME> process
// variables to their lower-cased environment names. It is built once and is
// read-only afterwards.
type OverrideIndex struct {
	byType map[envDomain.CredentialType]map[string]string
}

// NewOverrideIndex indexes environ (KEY=VALUE entries, as from os.Environ) for
// the two prefixes. Variables are visited in name order and the first name
// configured for a value wins. Empty values and empty suffixes are ignored.
func NewOverrideIndex(environ []string, secretPrefix, publicPrefix string) *OverrideIndex {
	entries := make([]string, len(environ))
	copy(entries, environ)
	sort.Strings(entries)

	idx := &OverrideIndex{byType: map[envDomain.CredentialType]map[string]string{
		envDomain.CredentialSecret: {},
		envDomain.CredentialPublic: {},
	}}

	prefixes := map[envDomain.CredentialType]string{
		envDomain.CredentialSecret: secretPrefix + "_",
		envDomain.CredentialPublic: publicPrefix + "_",
	}

	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" {
			continue
		}
		for t, prefix := range prefixes {
			if prefix == "_" || !strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(prefix)) {
				continue
			}
			name := strings.ToLower(key[len(prefix):])
			if name == "" {
				continue
			}
			if _, seen := idx.byType[t][value]; !seen {
				idx.byType[t][value] = name
			}
		}
	}

	return idx
}

// Lookup returns the environment name configured for value under t.
func (o *OverrideIndex) Lookup(t envDomain.CredentialType, value string) (string, bool) {
	if value == "" {
		return "", false
	}
	name, ok := o.byType[t][value]
	return name, ok
}

// Len returns the number of indexed credentials of type t.
func (o *OverrideIndex) Len(t envDomain.CredentialType) int {
	return len(o.byType[t])
}
