// Package catalog holds the static ISO 20022 reference metadata: which message
// codes exist, which PDF documents them, and where each documentation section
// starts. Built once at startup and read-only afterwards.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Family identifies one of the three reference documents.
type Family string

const (
	FamilyPAIN Family = "pain"
	FamilyPACS Family = "pacs"
	FamilyCAMT Family = "camt"
)

// Section is one of the per-message documentation sections, in document order.
type Section string

const (
	SectionFunctionality Section = "functionality"
	SectionStructure     Section = "structure"
	SectionConstraints   Section = "constraints"
	SectionBlocks        Section = "blocks"
)

// sectionOrder is the order sections appear within a message's chapter.
var sectionOrder = []Section{SectionFunctionality, SectionStructure, SectionConstraints, SectionBlocks}

// PageRange is an inclusive page interval within a document.
type PageRange struct {
	Start int
	End   int
}

// entry is the TOC record for a single message code.
type entry struct {
	sections  map[Section]int
	nextStart int // start page of the next message's chapter
}

var familyFiles = map[Family]string{
	FamilyPAIN: "pain_messages.pdf",
	FamilyPACS: "pacs_messages.pdf",
	FamilyCAMT: "camt_messages.pdf",
}

var definitions = map[string]string{
	"pain.001": "CustomerCreditTransferInitiation – customer-to-bank credit transfer initiation.",
	"pain.002": "CustomerPaymentStatusReport – status on previously sent customer payments.",
	"pain.007": "CustomerPaymentReversal – reversal of a previously executed customer payment.",
	"pain.008": "CustomerDirectDebitInitiation – direct debit initiation from customer to bank.",

	"pacs.002": "FIToFIPaymentStatusReport – interbank payment status.",
	"pacs.003": "FIToFICustomerDirectDebit – interbank customer direct debit.",
	"pacs.004": "PaymentReturn – return of an unaccepted or rejected payment.",
	"pacs.007": "FIToFIPaymentReversal – reversal of interbank payments.",
	"pacs.008": "FIToFICustomerCreditTransfer – interbank customer credit transfer.",
	"pacs.009": "FinancialInstitutionCreditTransfer – FI to FI credit transfer.",
	"pacs.010": "FinancialInstitutionDirectDebit – FI to FI direct debit.",
	"pacs.028": "FIToFIPaymentStatusRequest – status inquiry for an interbank payment.",

	"camt.026": "UnableToApply – payment cannot be applied and requires investigation.",
	"camt.027": "ClaimNonReceipt – used to claim non-receipt of a payment.",
	"camt.028": "AdditionalPaymentInformation – additional information about a payment.",
	"camt.029": "ResolutionOfInvestigation – outcome of an investigation case.",
	"camt.030": "NotificationOfCaseAssignment – notification of a new/changed case assignment.",
	"camt.031": "RejectInvestigation – rejection of an investigation.",
	"camt.032": "CancelCaseAssignment – cancellation of case assignment.",
	"camt.033": "RequestForDuplicate – request for duplicate information.",
	"camt.034": "Duplicate – duplicate information message.",
	"camt.035": "ProprietaryFormatInvestigation – investigation message in proprietary format.",
	"camt.036": "DebitAuthorisationResponse – response to debit authorisation request.",
	"camt.037": "DebitAuthorisationRequest – request for debit authorisation.",
	"camt.038": "CaseStatusReportRequest – request for case status report.",
	"camt.039": "CaseStatusReport – case status information.",
	"camt.055": "CustomerPaymentCancellationRequest – cancellation request from customer.",
	"camt.056": "FIToFIPaymentCancellationRequest – interbank payment cancellation request.",
	"camt.087": "RequestToModifyPayment – request to modify a payment.",
}

// tocRow feeds the index builder; pages are section start pages taken from each
// document's table of contents, next is where the following message's chapter begins.
type tocRow struct {
	functionality, structure, constraints, blocks, next int
}

var toc = map[string]tocRow{
	"pacs.002": {6, 7, 11, 15, 79},
	"pacs.003": {79, 80, 83, 87, 145},
	"pacs.004": {145, 146, 157, 164, 353},
	"pacs.007": {353, 354, 359, 363, 440},
	"pacs.008": {440, 441, 446, 451, 520},
	"pacs.009": {520, 521, 528, 535, 653},
	"pacs.010": {653, 654, 655, 657, 686},
	"pacs.028": {686, 687, 690, 692, 743},

	"pain.001": {4, 6, 10, 14, 78},
	"pain.002": {78, 79, 84, 87, 163},
	"pain.007": {163, 164, 168, 171, 239},
	"pain.008": {239, 240, 244, 246, 309},

	"camt.026": {8, 10, 17, 19, 138},
	"camt.027": {138, 140, 146, 148, 266},
	"camt.028": {266, 268, 277, 279, 433},
	"camt.029": {433, 435, 451, 455, 716},
	"camt.030": {716, 718, 719, 719, 734},
	"camt.031": {734, 735, 736, 736, 746},
	"camt.032": {746, 747, 747, 748, 758},
	"camt.033": {758, 759, 759, 760, 769},
	"camt.034": {769, 770, 770, 771, 781},
	"camt.035": {781, 782, 782, 783, 793},
	"camt.036": {793, 794, 794, 795, 806},
	"camt.037": {806, 808, 814, 816, 930},
	"camt.038": {930, 931, 931, 932, 941},
	"camt.039": {941, 943, 944, 944, 959},
	"camt.055": {959, 961, 966, 969, 1057},
	"camt.056": {1057, 1060, 1064, 1067, 1144},
	"camt.087": {1144, 1147, 1155, 1157, 1291},
}

// codePattern matches a family prefix plus a 1-3 digit suffix, tolerating the
// separators users actually type ("pacs.008", "pacs 8", "pacs-008").
var codePattern = regexp.MustCompile(`(?i)\b(pain|pacs|camt)[\s.\-]?(\d{1,3})\b`)

// Catalog is the immutable section index.
type Catalog struct {
	index map[string]entry
}

// New builds the catalog from the static TOC tables.
func New() *Catalog {
	index := make(map[string]entry, len(toc))
	for code, row := range toc {
		index[code] = entry{
			sections: map[Section]int{
				SectionFunctionality: row.functionality,
				SectionStructure:     row.structure,
				SectionConstraints:   row.constraints,
				SectionBlocks:        row.blocks,
			},
			nextStart: row.next,
		}
	}
	return &Catalog{index: index}
}

// Normalize canonicalizes a raw message-code token, zero-padding the numeric
// suffix ("pacs.8" -> "pacs.008"). Returns "" when the token is not shaped like
// a message code at all.
func Normalize(raw string) string {
	m := codePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s.%03d", m[1], n)
}

// FindCodes extracts every known message code mentioned in free text, in order
// of first appearance, deduplicated and normalized.
func (c *Catalog) FindCodes(text string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, m := range codePattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		code := fmt.Sprintf("%s.%03d", m[1], n)
		if _, known := c.index[code]; known && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// Known reports whether the catalog indexes the given normalized code.
func (c *Catalog) Known(code string) bool {
	_, ok := c.index[code]
	return ok
}

// Codes returns every indexed message code (unordered).
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.index))
	for code := range c.index {
		codes = append(codes, code)
	}
	return codes
}

// Definition returns the one-line description for a code, or "".
func (c *Catalog) Definition(code string) string {
	return definitions[code]
}

// FamilyOf maps a normalized code to its document family.
func FamilyOf(code string) (Family, bool) {
	prefix, _, found := strings.Cut(code, ".")
	if !found {
		return "", false
	}
	switch Family(prefix) {
	case FamilyPAIN, FamilyPACS, FamilyCAMT:
		return Family(prefix), true
	}
	return "", false
}

// FileFor returns the PDF file name backing a family.
func FileFor(f Family) string {
	return familyFiles[f]
}

// Sections returns the section order used within each message chapter.
func Sections() []Section {
	return sectionOrder
}

// SectionStart returns the start page of a single section.
func (c *Catalog) SectionStart(code string, s Section) (int, bool) {
	e, ok := c.index[code]
	if !ok {
		return 0, false
	}
	page, ok := e.sections[s]
	return page, ok
}

// SectionRange returns the inclusive page range covering a section.
//
// Constraints and functionality content regularly runs onto the page where the
// next section's heading sits, so for those two the next section's start page
// is included; the extractor trims at the heading. Other sections stop on the
// page before the next section begins.
func (c *Catalog) SectionRange(code string, s Section) (PageRange, bool) {
	e, ok := c.index[code]
	if !ok {
		return PageRange{}, false
	}
	start, ok := e.sections[s]
	if !ok {
		return PageRange{}, false
	}

	idx := -1
	for i, sec := range sectionOrder {
		if sec == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PageRange{}, false
	}

	var end int
	if idx < len(sectionOrder)-1 {
		next := e.sections[sectionOrder[idx+1]]
		if s == SectionConstraints || s == SectionFunctionality {
			end = next
		} else {
			end = next - 1
		}
	} else {
		end = e.nextStart - 1
	}

	// Short chapters can put two section headings on the same page.
	if end < start {
		end = start
	}
	return PageRange{Start: start, End: end}, true
}

// Extent returns the last documented page for a family, derived from the final
// message chapter's end. Used to sanity-check ranges without opening the PDF.
func (c *Catalog) Extent(f Family) int {
	max := 0
	for code, e := range c.index {
		if fam, _ := FamilyOf(code); fam != f {
			continue
		}
		if e.nextStart-1 > max {
			max = e.nextStart - 1
		}
	}
	return max
}
