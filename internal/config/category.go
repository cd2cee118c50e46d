package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/drivesweep/internal/envutil"
)

var (
	// ErrDuplicateID is returned when two categories share an identifier.
	ErrDuplicateID = errors.New("duplicate category id")

	// ErrInvalidCategory is returned for a category that cannot be scanned.
	ErrInvalidCategory = errors.New("invalid category")
)

// RiskLevel is the operator-facing safety tier of a category.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels; unknown levels rank above high.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	}
	return 3
}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	return r.Rank() < 3
}

// SpecialTrash marks the category that is handled by the trash adapter
// instead of a filesystem walk.
const SpecialTrash = "trash"

// Category is one cleanup target of the catalog.
type Category struct {
	// ID is the unique identifier for this category.
	ID string `yaml:"id" json:"id"`

	// Name is the display name.
	Name string `yaml:"name" json:"name"`

	// Description is a human-readable description.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Paths is the ordered list of roots to walk.
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`

	// Extensions restricts collected files to these suffixes (".log").
	// Empty means every file.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// Pattern restricts collected files to paths containing this substring.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Risk is one of "low", "medium", "high".
	Risk RiskLevel `yaml:"risk" json:"risk"`

	// Enabled marks categories selected when the operator picks nothing.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Special is empty or SpecialTrash.
	Special string `yaml:"special,omitempty" json:"special,omitempty"`

	// Group clusters related categories (user, system, browser, dev, app).
	Group string `yaml:"group,omitempty" json:"group,omitempty"`

	// RequiresAdmin indicates whether elevated privileges are needed.
	RequiresAdmin bool `yaml:"requires_admin,omitempty" json:"requires_admin,omitempty"`
}

// IsTrash reports whether the category is served by the trash adapter.
func (c Category) IsTrash() bool {
	return c.Special == SpecialTrash
}

// normalize expands environment references in paths and canonicalises the
// extension list to lower case with a leading dot.
func (c Category) normalize() Category {
	out := c
	out.Paths = make([]string, 0, len(c.Paths))
	for _, p := range c.Paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out.Paths = append(out.Paths, filepath.Clean(envutil.ExpandWindowsEnv(p)))
	}

	if len(c.Extensions) > 0 {
		out.Extensions = make([]string, 0, len(c.Extensions))
		for _, ext := range c.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			out.Extensions = append(out.Extensions, ext)
		}
	}

	if out.Risk == "" {
		out.Risk = RiskLow
	}
	return out
}

func (c Category) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: empty id (name %q)", ErrInvalidCategory, c.Name)
	}
	if !c.Risk.Valid() {
		return fmt.Errorf("%w: %s: unknown risk level %q", ErrInvalidCategory, c.ID, c.Risk)
	}
	if c.Special != "" && c.Special != SpecialTrash {
		return fmt.Errorf("%w: %s: unknown special tag %q", ErrInvalidCategory, c.ID, c.Special)
	}
	return nil
}

// Catalog is the ordered, immutable list of categories loaded at startup.
type Catalog []Category

// NewCatalog normalizes and validates the given categories.
func NewCatalog(cats []Category) (Catalog, error) {
	out := make(Catalog, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.normalize())
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks every category and id uniqueness.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, cat := range c {
		if err := cat.validate(); err != nil {
			return err
		}
		if seen[cat.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, cat.ID)
		}
		seen[cat.ID] = true
	}
	return nil
}

// Lookup returns the category with the given id.
func (c Catalog) Lookup(id string) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Select returns the categories matching ids, in catalog order. Unknown ids
// are reported in the second return value.
func (c Catalog) Select(ids []string) (Catalog, []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out Catalog
	for _, cat := range c {
		if want[cat.ID] {
			out = append(out, cat)
			delete(want, cat.ID)
		}
	}

	var unknown []string
	for _, id := range ids {
		if want[id] {
			unknown = append(unknown, id)
			delete(want, id)
		}
	}
	return out, unknown
}

// Enabled returns the default-enabled categories.
func (c Catalog) Enabled() Catalog {
	var out Catalog
	for _, cat := range c {
		if cat.Enabled {
			out = append(out, cat)
		}
	}
	return out
}

// MaxRisk returns the categories whose risk does not exceed max.
func (c Catalog) MaxRisk(max RiskLevel) Catalog {
	var out Catalog
	for _, cat := range c {
		if cat.Risk.Rank() <= max.Rank() {
			out = append(out, cat)
		}
	}
	return out
}

// Group returns the categories belonging to any of groups. Matching is
// case-insensitive.
func (c Catalog) Group(groups ...string) Catalog {
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[strings.ToLower(g)] = true
	}
	var out Catalog
	for _, cat := range c {
		if want[strings.ToLower(cat.Group)] {
			out = append(out, cat)
		}
	}
	return out
}

// Groups returns the distinct non-empty group names in catalog order.
func (c Catalog) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cat := range c {
		g := strings.ToLower(cat.Group)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

// IDs returns the category ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, cat := range c {
		ids[i] = cat.ID
	}
	return ids
}
