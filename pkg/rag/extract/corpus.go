package extract

import (
	"strings"

	"iso20022-assistant-be/pkg/docstore"
)

// Corpus is the concatenated text of an extracted page range, with enough
// bookkeeping to map any text offset back to the page it came from. Strategies
// search the joined text so captures can cross page breaks, and attribute the
// result to the page of the most recent marker before the match.
type Corpus struct {
	Text    string
	bounds  []int // byte offset where each page's text starts
	pageNos []int
}

const pageSeparator = "\n\n"

// NewCorpus joins cleaned pages into a single searchable text.
func NewCorpus(pages []docstore.PageText) *Corpus {
	var b strings.Builder
	c := &Corpus{}
	for i, p := range pages {
		if i > 0 {
			b.WriteString(pageSeparator)
		}
		c.bounds = append(c.bounds, b.Len())
		c.pageNos = append(c.pageNos, p.Page)
		b.WriteString(p.Text)
	}
	c.Text = b.String()
	return c
}

// Empty reports whether the corpus holds no text at all.
func (c *Corpus) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// PageAt returns the page number owning the given byte offset.
func (c *Corpus) PageAt(offset int) int {
	if len(c.bounds) == 0 {
		return 0
	}
	page := c.pageNos[0]
	for i, start := range c.bounds {
		if start > offset {
			break
		}
		page = c.pageNos[i]
	}
	return page
}

// FirstPage returns the first page in the range, or 0 for an empty corpus.
func (c *Corpus) FirstPage() int {
	if len(c.pageNos) == 0 {
		return 0
	}
	return c.pageNos[0]
}
