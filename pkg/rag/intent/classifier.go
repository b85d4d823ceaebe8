// Package intent turns a free-text question into a structured query: which
// message family and code it targets, what kind of information is wanted, and
// which field or constraint it singles out. Classification is a pure function
// of the input string.
package intent

import (
	"errors"
	"regexp"
	"strings"

	"iso20022-assistant-be/pkg/catalog"
)

// Facet is the kind of information the user asked for.
type Facet string

const (
	FacetDefinition  Facet = "definition"
	FacetUsage       Facet = "usage"
	FacetBlocks      Facet = "building_blocks"
	FacetConstraints Facet = "constraints"
	FacetStructure   Facet = "structure"
	FacetField       Facet = "field"
	FacetExplain     Facet = "explain"
)

// ErrEmptyQuery flags empty or whitespace-only input.
var ErrEmptyQuery = errors.New("query is empty")

// Query is the structured form of a question. MessageCode is "" when no known
// code could be identified; the composer must then answer "could not identify
// message" instead of guessing.
type Query struct {
	Family      catalog.Family
	MessageCode string
	Facet       Facet
	FieldTag    string
	Raw         string
}

var greetings = []string{
	"hi", "hello", "hey",
	"good morning", "good afternoon", "good evening",
	"how are you", "how r u",
	"thanks", "thank you",
}

// IsSmallTalk reports whether the input is a greeting rather than an ISO 20022
// question, so it can be answered before any document logic runs.
func IsSmallTalk(raw string) bool {
	q := strings.ToLower(strings.TrimSpace(raw))
	for _, g := range greetings {
		if q == g || strings.HasPrefix(q, g) {
			return true
		}
	}
	return false
}

var (
	angleTagRe   = regexp.MustCompile(`<\s*([A-Za-z0-9]+)\s*>`)
	quotedTermRe = regexp.MustCompile(`["']([A-Za-z0-9]{2,})["']`)
	constraintRe = regexp.MustCompile(`(?i)\b(C\d+)\b`)
	camelCaseRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z0-9]*)+\b`)
	allCapsRe    = regexp.MustCompile(`\b[A-Z]{2,}[0-9]*\b`)
	familyWordRe = regexp.MustCompile(`(?i)\b(pain|pacs|camt)\b`)
)

// Classifier parses questions against the message catalog.
type Classifier struct {
	catalog *catalog.Catalog
}

func NewClassifier(c *catalog.Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// Classify parses raw text into a Query. The only error is ErrEmptyQuery;
// unrecognized codes and facets are normal results, not failures.
func (c *Classifier) Classify(raw string) (*Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	q := &Query{Raw: trimmed, Facet: FacetExplain}

	if codes := c.catalog.FindCodes(trimmed); len(codes) > 0 {
		q.MessageCode = codes[0]
		if fam, ok := catalog.FamilyOf(q.MessageCode); ok {
			q.Family = fam
		}
	} else if m := familyWordRe.FindStringSubmatch(trimmed); m != nil {
		// Family hint without a concrete code still helps the answer text.
		q.Family = catalog.Family(strings.ToLower(m[1]))
	}

	q.FieldTag = extractFieldTag(trimmed)
	q.Facet = detectFacet(strings.ToLower(trimmed), q.FieldTag)
	return q, nil
}

// detectFacet maps facet keywords to a facet, defaulting to a generic explain.
func detectFacet(lower, fieldTag string) Facet {
	switch {
	case strings.Contains(lower, "structure"):
		return FacetStructure
	case strings.Contains(lower, "building block"):
		return FacetBlocks
	case strings.Contains(lower, "constraint") || strings.Contains(lower, "rule") ||
		constraintRe.MatchString(lower):
		return FacetConstraints
	case strings.Contains(lower, "usage"):
		return FacetUsage
	case fieldTag != "" && (strings.Contains(lower, "definition") ||
		strings.Contains(lower, "what is") || strings.Contains(lower, "define")):
		return FacetDefinition
	case fieldTag != "":
		return FacetField
	default:
		return FacetExplain
	}
}

// extractFieldTag pulls the most specific term the question singles out, in
// decreasing order of reliability: an angle-bracketed XML tag, a quoted token,
// a constraint code, a CamelCase element name, an all-caps term.
func extractFieldTag(text string) string {
	if m := angleTagRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := quotedTermRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := constraintRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := camelCaseRe.FindString(text); m != "" {
		return m
	}
	for _, m := range allCapsRe.FindAllString(text, -1) {
		// A shouted family prefix ("PACS.008") is not a field term.
		switch strings.ToLower(m) {
		case "pain", "pacs", "camt":
			continue
		}
		return m
	}
	return ""
}
