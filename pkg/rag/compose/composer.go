// Package compose assembles the final answer: extracted snippet, message
// definition, page citation, and document link. Positive and negative results
// are structurally distinct — a negative answer always carries a nil page.
package compose

import (
	"fmt"
	"strings"

	"iso20022-assistant-be/pkg/catalog"
	"iso20022-assistant-be/pkg/rag/extract"
	"iso20022-assistant-be/pkg/rag/intent"
)

// AnswerResult is the assembled answer for one query.
type AnswerResult struct {
	Text  string
	Page  *int   // nil when no section or anchor was found
	Link  string // static document URL, with a page fragment when Page is set
	Facet intent.Facet
	Found bool
}

// Composer renders answers against a base URL serving the reference PDFs.
type Composer struct {
	catalog *catalog.Catalog
	baseURL string
}

func New(c *catalog.Catalog, baseURL string) *Composer {
	return &Composer{catalog: c, baseURL: strings.TrimRight(baseURL, "/")}
}

// Compose renders a positive result from an extracted snippet.
func (cp *Composer) Compose(q *intent.Query, snip extract.Snippet) AnswerResult {
	body := snip.Text
	if q.Facet == intent.FacetConstraints {
		body = extract.FormatConstraints(body)
	}

	page := snip.Page
	var b strings.Builder
	cp.writeHeader(&b, q.MessageCode)
	b.WriteString(body)
	cp.writeFooter(&b, q.Family, &page)

	return AnswerResult{
		Text:  b.String(),
		Page:  &page,
		Link:  cp.Link(q.Family, page),
		Facet: q.Facet,
		Found: true,
	}
}

// LocationOnly renders a citation answer without extracted content: the
// message definition plus where to read on (structure and bare building-block
// questions, where the content is tabular and better read in the PDF).
func (cp *Composer) LocationOnly(q *intent.Query, page int) AnswerResult {
	var b strings.Builder
	cp.writeHeader(&b, q.MessageCode)
	b.WriteString("Open the document at the cited page to view this section in full.")
	cp.writeFooter(&b, q.Family, &page)

	return AnswerResult{
		Text:  b.String(),
		Page:  &page,
		Link:  cp.Link(q.Family, page),
		Facet: q.Facet,
		Found: true,
	}
}

// NotFound renders a structurally negative result. The text must carry no
// page-specific claim, so no page and no footer citation are attached; the
// document link is kept when the family is known, since pointing at the right
// document is still correct.
func (cp *Composer) NotFound(q *intent.Query, message string) AnswerResult {
	link := ""
	if q.Family != "" {
		link = cp.Link(q.Family, 0)
	}
	return AnswerResult{
		Text:  message,
		Page:  nil,
		Link:  link,
		Facet: q.Facet,
		Found: false,
	}
}

// Link builds the static download URL for a family's PDF; page > 0 adds a
// viewer fragment.
func (cp *Composer) Link(f catalog.Family, page int) string {
	if f == "" {
		return ""
	}
	link := cp.baseURL + "/pdfs/" + catalog.FileFor(f)
	if page > 0 {
		link = fmt.Sprintf("%s#page=%d", link, page)
	}
	return link
}

func (cp *Composer) writeHeader(b *strings.Builder, code string) {
	if code == "" {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", code)
	if def := cp.catalog.Definition(code); def != "" {
		b.WriteString(def)
		b.WriteString("\n\n")
	}
}

func (cp *Composer) writeFooter(b *strings.Builder, f catalog.Family, page *int) {
	b.WriteString("\n\n---\n")
	if page != nil {
		fmt.Fprintf(b, "\n📍 Page: %d\n", *page)
	}
	if f != "" {
		fmt.Fprintf(b, "\n📄 Download PDF: %s\n", cp.Link(f, 0))
	}
}
