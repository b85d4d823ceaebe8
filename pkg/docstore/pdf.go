package docstore

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ledongthuc/pdf"
	gocache "github.com/patrickmn/go-cache"
)

// pdfSource reads per-page plain text from a PDF on disk. Extraction is the
// slow path, so decoded pages are cached for the life of the process (the
// documents never change). go-cache is internally synchronized, which keeps
// concurrent requests for the same family lock-free here.
type pdfSource struct {
	file   *os.File
	reader *pdf.Reader
	pages  int
	cache  *gocache.Cache
}

func openPDF(path string) (*pdfSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfSource{
		file:   f,
		reader: r,
		pages:  r.NumPage(),
		cache:  gocache.New(gocache.NoExpiration, 0),
	}, nil
}

func (p *pdfSource) NumPages() int {
	return p.pages
}

func (p *pdfSource) PageText(page int) (string, error) {
	key := strconv.Itoa(page)
	if cached, ok := p.cache.Get(key); ok {
		return cached.(string), nil
	}

	text := ""
	pg := p.reader.Page(page)
	if !pg.V.IsNull() {
		// Undecodable pages degrade to empty text, matching how the
		// reference documents behave on scanned filler pages.
		if s, err := pg.GetPlainText(nil); err == nil {
			text = s
		}
	}

	p.cache.Set(key, text, gocache.NoExpiration)
	return text, nil
}

func (p *pdfSource) Close() error {
	return p.file.Close()
}

// MemorySource serves pre-set page text; page n maps to Pages[n-1].
type MemorySource struct {
	Pages []string
}

func (m *MemorySource) NumPages() int {
	return len(m.Pages)
}

func (m *MemorySource) PageText(page int) (string, error) {
	if page < 1 || page > len(m.Pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return m.Pages[page-1], nil
}
