// Package catalog serves the curated featured-destination set. The catalog
// is a YAML document loaded at startup and refreshed in the background; a
// built-in document covers deployments that don't configure one.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Destination is one curated entry. Unlike the live search results, these
// are editorial records with a category, blurb and indicative price.
type Destination struct {
	ID          int     `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Country     string  `yaml:"country" json:"country"`
	Category    string  `yaml:"category" json:"category"`
	Image       string  `yaml:"image" json:"image"`
	Description string  `yaml:"description" json:"description"`
	Rating      float64 `yaml:"rating" json:"rating"`
	Price       string  `yaml:"price" json:"price"`
}

// Document is the full curated catalog. CategoryAll is implicit and must not
// be declared in the document itself.
type Document struct {
	CategoryList []string      `yaml:"categories" json:"categories"`
	Destinations []Destination `yaml:"destinations" json:"destinations"`
}

// CategoryAll selects every destination regardless of category.
const CategoryAll = "All"

// ParseDocument decodes and validates a catalog document.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("invalid catalog document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	if len(d.Destinations) == 0 {
		return fmt.Errorf("catalog document has no destinations")
	}
	if slices.Contains(d.CategoryList, CategoryAll) {
		return fmt.Errorf("catalog category %q is implicit and must not be declared", CategoryAll)
	}

	seen := make(map[int]bool, len(d.Destinations))
	for _, dest := range d.Destinations {
		switch {
		case dest.Name == "":
			return fmt.Errorf("catalog destination %d has no name", dest.ID)
		case dest.Country == "":
			return fmt.Errorf("catalog destination %q has no country", dest.Name)
		case !slices.Contains(d.CategoryList, dest.Category):
			return fmt.Errorf("catalog destination %q has undeclared category %q", dest.Name, dest.Category)
		case seen[dest.ID]:
			return fmt.Errorf("catalog destination id %d appears twice", dest.ID)
		}
		seen[dest.ID] = true
	}
	return nil
}

// Digest identifies the document content, so refreshes can tell a change
// from a reload of the same data.
func (d *Document) Digest() string {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
