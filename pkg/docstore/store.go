// Package docstore loads the three immutable reference PDFs at startup and
// serves cleaned per-page text for inclusive page ranges. Documents are never
// mutated; page text is extracted on demand and cached.
package docstore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"iso20022-assistant-be/pkg/catalog"
)

// PageText is one page's cleaned text tagged with its page number, so a
// snippet found inside a multi-page range can be attributed to its page.
type PageText struct {
	Page int
	Text string
}

// Source provides raw text per page of a single document. The production
// implementation reads the PDF; tests substitute an in-memory one.
type Source interface {
	NumPages() int
	// PageText returns the raw text of a 1-based page. Pages that cannot be
	// decoded yield "" rather than an error.
	PageText(page int) (string, error)
}

// Document is an immutable reference document.
type Document struct {
	Family catalog.Family
	File   string
	source Source
}

// Pages returns the document's total page count.
func (d *Document) Pages() int {
	return d.source.NumPages()
}

// Store holds the loaded documents keyed by family.
type Store struct {
	docs   map[catalog.Family]*Document
	logger *log.Logger
}

// NewStore builds an empty store; use Add to register documents. Open is the
// production path.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stdout, "[DOCSTORE] ", log.LstdFlags)
	}
	return &Store{docs: make(map[catalog.Family]*Document), logger: logger}
}

// Add registers a document for a family.
func (s *Store) Add(f catalog.Family, file string, src Source) {
	s.docs[f] = &Document{Family: f, File: file, source: src}
}

// Open loads the three reference PDFs from dir. All three must be present:
// the store is the process's only data source and a missing document would
// turn every query for that family into a runtime surprise.
func Open(dir string, logger *log.Logger) (*Store, error) {
	s := NewStore(logger)
	for _, fam := range []catalog.Family{catalog.FamilyPAIN, catalog.FamilyPACS, catalog.FamilyCAMT} {
		file := catalog.FileFor(fam)
		path := filepath.Join(dir, file)
		src, err := openPDF(path)
		if err != nil {
			return nil, fmt.Errorf("load %s document %s: %w", fam, path, err)
		}
		s.Add(fam, file, src)
		s.logger.Printf("loaded %s (%d pages)", file, src.NumPages())
	}
	return s, nil
}

// Document returns the loaded document for a family.
func (s *Store) Document(f catalog.Family) (*Document, bool) {
	d, ok := s.docs[f]
	return d, ok
}

// ExtractRange returns the cleaned text of every page in the inclusive range,
// in page order. Ranges that reach outside the document are clipped to its
// bounds; page counts are known at load time so this is purely defensive.
func (s *Store) ExtractRange(f catalog.Family, r catalog.PageRange) ([]PageText, error) {
	d, ok := s.docs[f]
	if !ok {
		return nil, fmt.Errorf("no document loaded for family %q", f)
	}

	start, end := r.Start, r.End
	if start < 1 {
		start = 1
	}
	if end > d.Pages() {
		end = d.Pages()
	}
	if start > end {
		return nil, nil
	}

	pages := make([]PageText, 0, end-start+1)
	for p := start; p <= end; p++ {
		raw, err := d.source.PageText(p)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", p, d.File, err)
		}
		pages = append(pages, PageText{Page: p, Text: Clean(raw)})
	}
	return pages, nil
}
