package category

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// MainCategory is one entry of the taxonomy file.
type MainCategory struct {
	Name          string   `yaml:"name" json:"name"`
	Slug          string   `yaml:"slug,omitempty" json:"slug"`
	SubCategories []string `yaml:"subcategories" json:"subCategories"`
}

type taxonomyFile struct {
	Categories []MainCategory `yaml:"categories"`
}

// Taxonomy is the read-only main -> sub-category table. It is built once
// and shared; nothing mutates it after Parse returns.
type Taxonomy struct {
	mains []MainCategory
	index map[string]int // slug -> position in mains
}

// Expansion is the result of looking up a main category.
type Expansion struct {
	MainCategory string   `json:"mainCategory"`
	Slug         string   `json:"slug,omitempty"`
	Labels       []string `json:"labels"`
	Matched      bool     `json:"matched"`
}

// ProvideTaxonomy loads TAXONOMY_FILE when set, otherwise the embedded table.
func ProvideTaxonomy(cfg *config.Config) (*Taxonomy, error) {
	if strings.TrimSpace(cfg.TaxonomyFile) == "" {
		return ParseTaxonomy(defaultTaxonomy)
	}
	data, err := os.ReadFile(cfg.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file %q: %w", cfg.TaxonomyFile, err)
	}
	return ParseTaxonomy(data)
}

// DefaultTaxonomy parses the embedded table.
func DefaultTaxonomy() (*Taxonomy, error) {
	return ParseTaxonomy(defaultTaxonomy)
}

// ParseTaxonomy decodes and validates a YAML taxonomy.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	t := &Taxonomy{index: make(map[string]int, len(f.Categories))}
	for i, mc := range f.Categories {
		name := strings.TrimSpace(mc.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy entry %d has no name", i)
		}
		s := strings.TrimSpace(mc.Slug)
		if s == "" {
			s = name
		}
		s = slug.Make(s)
		if _, dup := t.index[s]; dup {
			return nil, fmt.Errorf("duplicate taxonomy slug %q", s)
		}

		subs := make([]string, 0, len(mc.SubCategories))
		seen := make(map[string]struct{})
		for _, sub := range mc.SubCategories {
			sub = strings.TrimSpace(sub)
			key := strings.ToLower(sub)
			if sub == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			subs = append(subs, sub)
		}

		t.index[s] = len(t.mains)
		t.mains = append(t.mains, MainCategory{Name: name, Slug: s, SubCategories: subs})
	}
	return t, nil
}

// Categories returns a copy of the table in file order.
func (t *Taxonomy) Categories() []MainCategory {
	out := make([]MainCategory, len(t.mains))
	for i, mc := range t.mains {
		out[i] = MainCategory{Name: mc.Name, Slug: mc.Slug, SubCategories: append([]string(nil), mc.SubCategories...)}
	}
	return out
}

// Lookup finds a main category by name or slug, ignoring case and punctuation.
func (t *Taxonomy) Lookup(nameOrSlug string) (MainCategory, bool) {
	i, ok := t.index[slug.Make(nameOrSlug)]
	if !ok {
		return MainCategory{}, false
	}
	return t.mains[i], true
}

// Expand returns the main category label followed by its sub-categories.
// Unknown input expands to itself so callers can match it literally.
func (t *Taxonomy) Expand(mainCategory string) Expansion {
	mainCategory = strings.TrimSpace(mainCategory)
	mc, ok := t.Lookup(mainCategory)
	if !ok {
		return Expansion{MainCategory: mainCategory, Labels: []string{mainCategory}}
	}
	labels := make([]string, 0, len(mc.SubCategories)+1)
	labels = append(labels, mc.Name)
	labels = append(labels, mc.SubCategories...)
	return Expansion{MainCategory: mc.Name, Slug: mc.Slug, Labels: labels, Matched: true}
}
