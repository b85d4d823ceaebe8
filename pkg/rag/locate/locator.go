// Package locate resolves a classified query to the page range that documents
// it, using the catalog's TOC-derived index. A miss is a normal result the
// composer turns into a "no section found" answer, never substituted content.
package locate

import (
	"errors"

	"iso20022-assistant-be/pkg/catalog"
	"iso20022-assistant-be/pkg/rag/intent"
)

// ErrSectionNotFound means the index has no range for the requested message.
var ErrSectionNotFound = errors.New("no section found for message")

// facetSections maps each facet to the documentation section holding its
// content. Field-level facets resolve in the building-blocks section, where
// every element carries its Definition/Usage text.
var facetSections = map[intent.Facet]catalog.Section{
	intent.FacetExplain:     catalog.SectionFunctionality,
	intent.FacetStructure:   catalog.SectionStructure,
	intent.FacetConstraints: catalog.SectionConstraints,
	intent.FacetBlocks:      catalog.SectionBlocks,
	intent.FacetDefinition:  catalog.SectionBlocks,
	intent.FacetUsage:       catalog.SectionBlocks,
	intent.FacetField:       catalog.SectionBlocks,
}

// Location is a resolved section: the range to extract and the section it
// belongs to.
type Location struct {
	Section catalog.Section
	Range   catalog.PageRange
}

// Locator answers range lookups against an immutable catalog.
type Locator struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Locator {
	return &Locator{catalog: c}
}

// SectionFor returns the documentation section a facet resolves in.
func SectionFor(f intent.Facet) catalog.Section {
	if s, ok := facetSections[f]; ok {
		return s
	}
	return catalog.SectionFunctionality
}

// Locate resolves (code, facet) to a page range. The code must already be
// normalized; unknown codes yield ErrSectionNotFound.
func (l *Locator) Locate(code string, facet intent.Facet) (Location, error) {
	section := SectionFor(facet)
	r, ok := l.catalog.SectionRange(code, section)
	if !ok {
		return Location{}, ErrSectionNotFound
	}
	return Location{Section: section, Range: r}, nil
}

// SectionStart returns just the start page of the section a facet maps to,
// for location-only answers that cite a page without extracting content.
func (l *Locator) SectionStart(code string, facet intent.Facet) (int, error) {
	page, ok := l.catalog.SectionStart(code, SectionFor(facet))
	if !ok {
		return 0, ErrSectionNotFound
	}
	return page, nil
}
