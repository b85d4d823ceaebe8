// Package extract implements the facet-specific snippet extraction strategies:
// anchor on a field tag, constraint code, section heading, or message code,
// then capture until the next heading-like boundary. Each strategy is a named,
// independently testable unit; none of them touches PDF parsing.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"iso20022-assistant-be/pkg/docstore"
	"iso20022-assistant-be/pkg/rag/intent"
)

// ErrAnchorNotFound means the located section exists but the requested term or
// heading does not appear in it. Callers must surface this as a structurally
// negative result, never as empty answer text.
var ErrAnchorNotFound = errors.New("anchor not found in section")

// Snippet is a positively extracted passage.
type Snippet struct {
	Text string
	Page int    // page carrying the anchor
	Term string // anchor that matched
}

// Strategy extracts a snippet for one facet.
type Strategy interface {
	Name() string
	Extract(pages []docstore.PageText, q *intent.Query) (Snippet, error)
}

// ForFacet selects the strategy handling a facet. Structure has no extraction
// strategy (it is answered location-only) and falls through to Explain.
func ForFacet(f intent.Facet) Strategy {
	switch f {
	case intent.FacetDefinition, intent.FacetUsage, intent.FacetField:
		return FieldStrategy{}
	case intent.FacetBlocks:
		return BlocksStrategy{}
	case intent.FacetConstraints:
		return ConstraintsStrategy{}
	default:
		return ExplainStrategy{}
	}
}

const maxSnippet = 8000

var (
	// "4.4.1 GroupHeader <GrpHdr>" or "GroupHeader <GrpHdr>" on its own line.
	// Leading whitespace is [ \t] only: \s would let the match start on the
	// newline before the heading, which shifts page attribution to the
	// previous page and makes a heading anchor terminate its own capture.
	blockHeadingRe = regexp.MustCompile(`(?m)^[ \t]*(?:\d+(?:\.\d+)*[ \t]+)?[A-Za-z][A-Za-z0-9 ]*<[A-Za-z0-9]+>[ \t]*$`)

	blocksSectionRe = regexp.MustCompile(`(?im)^[ \t]*(?:\d+(?:\.\d+)*[ \t]+)?Message[ \t]*Building[ \t]*Blocks[ \t]*$`)
	constraintsRe   = regexp.MustCompile(`(?im)^[ \t]*(?:\d+(?:\.\d+)*[ \t]+)?(?:Constraints|Rules)[ \t]*$`)
	structureRe     = regexp.MustCompile(`(?im)^[ \t]*(?:\d+(?:\.\d+)*[ \t]+)?Structure[ \t]*$`)
	scopeRe         = regexp.MustCompile(`(?m)^[ \t]*Scope[ \t]*$`)

	// "C17 CategoryPurpose..." constraint block heads.
	constraintHeadRe = regexp.MustCompile(`(?m)^[ \t]*(?:•[ \t]*)?C\d+[ \t]+[A-Z]`)

	definitionPartRe = regexp.MustCompile(`(?is)Definition:\s*(.+?)(?:\nUsage:|\nDatatype:|\nPresence:|\z)`)
	usagePartRe      = regexp.MustCompile(`(?is)Usage:\s*(.+?)(?:\nDatatype:|\nPresence:|\z)`)

	blankBoundaryRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

func headingForTag(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t]*(?:\d+(?:\.\d+)*[ \t]+)?[A-Za-z][A-Za-z0-9 ]*<[ \t]*` + regexp.QuoteMeta(tag) + `[ \t]*>[ \t]*$`)
}

func bareTag(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<\s*` + regexp.QuoteMeta(tag) + `\s*>`)
}

func wordAnchor(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// capture returns corpus text from start until the next boundary match after
// it, capped at maxSnippet.
func capture(c *Corpus, start int, boundary *regexp.Regexp) string {
	tail := c.Text[start:]
	end := len(tail)
	// Skip the anchor's own line before looking for the next boundary, or a
	// heading anchor would terminate its own capture.
	searchFrom := strings.IndexByte(tail, '\n') + 1
	if searchFrom <= 0 || searchFrom >= len(tail) {
		searchFrom = 0
	}
	if loc := boundary.FindStringIndex(tail[searchFrom:]); loc != nil {
		end = searchFrom + loc[0]
	}
	if end > maxSnippet {
		end = maxSnippet
	}
	return strings.TrimSpace(tail[:end])
}

// FieldStrategy serves definition/usage/field questions: anchor on the field
// tag's block heading (first occurrence wins), fall back to the bare tag, the
// tag as a word, then the message code.
type FieldStrategy struct{}

func (FieldStrategy) Name() string { return "field" }

func (FieldStrategy) Extract(pages []docstore.PageText, q *intent.Query) (Snippet, error) {
	c := NewCorpus(pages)
	if c.Empty() {
		return Snippet{}, ErrAnchorNotFound
	}

	type anchor struct {
		re   *regexp.Regexp
		term string
	}
	anchors := []anchor{}
	if q.FieldTag != "" {
		anchors = append(anchors,
			anchor{headingForTag(q.FieldTag), q.FieldTag},
			anchor{bareTag(q.FieldTag), q.FieldTag},
			anchor{wordAnchor(q.FieldTag), q.FieldTag},
		)
	}
	if q.MessageCode != "" {
		anchors = append(anchors, anchor{wordAnchor(q.MessageCode), q.MessageCode})
	}

	for _, a := range anchors {
		loc := a.re.FindStringIndex(c.Text)
		if loc == nil {
			continue
		}
		text := capture(c, loc[0], blockHeadingRe)
		text = trimToFacetPart(text, q.Facet)
		if text == "" {
			continue
		}
		return Snippet{Text: text, Page: c.PageAt(loc[0]), Term: a.term}, nil
	}
	return Snippet{}, ErrAnchorNotFound
}

// trimToFacetPart narrows a block snippet to its Definition or Usage sentence
// when the question asked for exactly that.
func trimToFacetPart(text string, f intent.Facet) string {
	var re *regexp.Regexp
	switch f {
	case intent.FacetDefinition:
		re = definitionPartRe
	case intent.FacetUsage:
		re = usagePartRe
	default:
		return text
	}
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// No labelled part in the capture; the whole snippet is still the best
	// positive answer available.
	return text
}

// BlocksStrategy captures the building-block list: anchor on the "Message
// Building Blocks" heading and take everything up to the first per-element
// heading, or the element's own block when a tag was named.
type BlocksStrategy struct{}

func (BlocksStrategy) Name() string { return "blocks" }

func (BlocksStrategy) Extract(pages []docstore.PageText, q *intent.Query) (Snippet, error) {
	c := NewCorpus(pages)
	if c.Empty() {
		return Snippet{}, ErrAnchorNotFound
	}

	if q.FieldTag != "" {
		return FieldStrategy{}.Extract(pages, q)
	}

	loc := blocksSectionRe.FindStringIndex(c.Text)
	if loc == nil {
		return Snippet{}, ErrAnchorNotFound
	}
	text := capture(c, loc[0], blockHeadingRe)
	if text == "" {
		return Snippet{}, ErrAnchorNotFound
	}
	return Snippet{Text: text, Page: c.PageAt(loc[0]), Term: "Message Building Blocks"}, nil
}

// ConstraintsStrategy captures the constraints section, or one C## block when
// the question named a specific constraint code.
type ConstraintsStrategy struct{}

func (ConstraintsStrategy) Name() string { return "constraints" }

func (ConstraintsStrategy) Extract(pages []docstore.PageText, q *intent.Query) (Snippet, error) {
	c := NewCorpus(pages)
	if c.Empty() {
		return Snippet{}, ErrAnchorNotFound
	}

	if isConstraintCode(q.FieldTag) {
		return extractConstraintBlock(c, q.FieldTag)
	}

	start := 0
	page := c.FirstPage()
	if loc := constraintsRe.FindStringIndex(c.Text); loc != nil {
		// Start strictly at the heading; the range begins mid-page inside the
		// previous section's tail.
		start = loc[1]
		page = c.PageAt(loc[0])
	} else if loc := constraintHeadRe.FindStringIndex(c.Text); loc != nil {
		start = loc[0]
		page = c.PageAt(loc[0])
	} else {
		return Snippet{}, ErrAnchorNotFound
	}

	text := c.Text[start:]
	// The range deliberately includes the next section's first page; trim at
	// its heading.
	if loc := blocksSectionRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet]
	}
	text = docstore.StripPageNumbers(text)
	if strings.TrimSpace(text) == "" {
		return Snippet{}, ErrAnchorNotFound
	}
	return Snippet{Text: strings.TrimSpace(text), Page: page, Term: "Constraints"}, nil
}

func isConstraintCode(tag string) bool {
	if len(tag) < 2 || (tag[0] != 'C' && tag[0] != 'c') {
		return false
	}
	for _, r := range tag[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func extractConstraintBlock(c *Corpus, code string) (Snippet, error) {
	headRe := regexp.MustCompile(`(?m)^[ \t]*(?:•[ \t]*)?` + regexp.QuoteMeta(strings.ToUpper(code)) + `[ \t]+\S`)
	loc := headRe.FindStringIndex(c.Text)
	if loc == nil {
		return Snippet{}, ErrAnchorNotFound
	}
	text := capture(c, loc[0], constraintHeadRe)
	if loc2 := blocksSectionRe.FindStringIndex(text); loc2 != nil {
		text = strings.TrimSpace(text[:loc2[0]])
	}
	text = docstore.StripPageNumbers(text)
	if text == "" {
		return Snippet{}, ErrAnchorNotFound
	}
	return Snippet{Text: text, Page: c.PageAt(loc[0]), Term: strings.ToUpper(code)}, nil
}

// ExplainStrategy serves generic questions: anchor on the message code's first
// occurrence (falling back to the Scope heading, which survives cleaning when
// the version-stamped chapter title does not) and capture the functionality
// text up to the Structure heading or a hard paragraph break.
type ExplainStrategy struct{}

func (ExplainStrategy) Name() string { return "explain" }

func (ExplainStrategy) Extract(pages []docstore.PageText, q *intent.Query) (Snippet, error) {
	c := NewCorpus(pages)
	if c.Empty() {
		return Snippet{}, ErrAnchorNotFound
	}

	var loc []int
	if q.MessageCode != "" {
		loc = wordAnchor(q.MessageCode).FindStringIndex(c.Text)
	}
	if loc == nil {
		loc = scopeRe.FindStringIndex(c.Text)
	}
	if loc == nil {
		return Snippet{}, ErrAnchorNotFound
	}

	text := c.Text[loc[0]:]
	if end := structureRe.FindStringIndex(text); end != nil {
		text = text[:end[0]]
	} else if end := blankBoundaryRe.FindStringIndex(text); end != nil {
		text = text[:end[0]]
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Snippet{}, ErrAnchorNotFound
	}
	return Snippet{Text: text, Page: c.PageAt(loc[0]), Term: q.MessageCode}, nil
}

// FormatConstraints renders every C## block in a constraints snippet with a
// bold heading line, preserving the document's exact wording.
func FormatConstraints(text string) string {
	locs := constraintHeadRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(text)
	}

	var parts []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(text[loc[0]:end])
		head, body, found := strings.Cut(block, "\n")
		if !found || strings.TrimSpace(body) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("**%s**\n%s", strings.TrimSpace(head), strings.TrimSpace(body)))
	}
	if len(parts) == 0 {
		return strings.TrimSpace(text)
	}
	return strings.Join(parts, "\n\n")
}
