//go:build !windows

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A pattern already contained in a root would match every file below it.
func TestDefaultCatalog_PatternsDiscriminate(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_CACHE_HOME", "/home/tester/.cache")

	for _, c := range DefaultCatalog() {
		if c.Pattern == "" {
			continue
		}
		for _, root := range c.Paths {
			assert.NotContains(t, strings.ToLower(root), strings.ToLower(c.Pattern),
				"category %s: root %s already contains pattern %q", c.ID, root, c.Pattern)
		}
	}
}
