package docstore

import (
	"regexp"
	"strings"
)

// Extracted PDF text arrives with hard-wrapped lines, dot leaders from the TOC,
// and repeating boilerplate (maintenance footers, SEG approval lines, version
// stamps). Clean strips all of that so the extraction strategies can anchor on
// real content.

var (
	dotLeaderRe   = regexp.MustCompile(`\.{3,}`)
	multiSpaceRe  = regexp.MustCompile(` {2,}`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)
	guidelineRe   = regexp.MustCompile(`(?s)Guideline:.*?(\n[A-Z]|\n\nC\d+|$)`)
	maintenanceRe = regexp.MustCompile(`(?im)^.*Maintenance\s+\d{4}\s*-\s*\d{4}.*$`)
	segApprovalRe = regexp.MustCompile(`(?im)^Approved\s+by\s+the\s+Payments\s+SEG.*$`)
	versionLineRe = regexp.MustCompile(`(?im)^(pain|pacs|camt)\.\d{3}\.\d{3}\.\d+\s+.*$`)
	monthFooterRe = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}`)
	pageNumLineRe = regexp.MustCompile(`(?m)^\s*\d{1,4}\s*$`)
)

// Clean normalizes raw page text extracted from one of the reference PDFs.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = joinSoftWraps(text)
	text = dotLeaderRe.ReplaceAllString(text, " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")

	text = guidelineRe.ReplaceAllString(text, "$1")
	text = maintenanceRe.ReplaceAllString(text, "")
	text = segApprovalRe.ReplaceAllString(text, "")
	text = versionLineRe.ReplaceAllString(text, "")
	text = monthFooterRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// StripPageNumbers removes standalone footer page numbers that survive
// extraction as their own lines. Applied only to constraint bodies, where a
// stray "157" would otherwise read as content.
func StripPageNumbers(text string) string {
	if text == "" {
		return ""
	}
	text = pageNumLineRe.ReplaceAllString(text, "")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// joinSoftWraps merges line breaks that only exist because the PDF wraps
// paragraphs. A break survives when the next line looks like a new unit:
// blank, a bullet, an XML tag, or an upper-case/numbered heading start.
func joinSoftWraps(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		if i == len(lines)-1 {
			break
		}
		next := lines[i+1]
		if keepsLineBreak(next) {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func keepsLineBreak(next string) bool {
	trimmed := strings.TrimLeft(next, " \t")
	if trimmed == "" {
		return true
	}
	r := rune(trimmed[0])
	if r >= 'A' && r <= 'Z' {
		return true
	}
	if r >= '0' && r <= '9' {
		return true
	}
	if r == '<' {
		return true
	}
	return strings.HasPrefix(trimmed, "•")
}
