package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already canonical", raw: "pacs.008", want: "pacs.008"},
		{name: "short suffix zero-padded", raw: "pacs.8", want: "pacs.008"},
		{name: "space separator", raw: "pain 1", want: "pain.001"},
		{name: "dash separator", raw: "camt-29", want: "camt.029"},
		{name: "upper case", raw: "PACS.008", want: "pacs.008"},
		{name: "not a code", raw: "hello world", want: ""},
		{name: "unknown prefix", raw: "xyz.999", want: ""},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeShortAndLongFormsAgree(t *testing.T) {
	assert.Equal(t, Normalize("pacs.008"), Normalize("pacs.8"))
	assert.Equal(t, Normalize("pain.001"), Normalize("pain.1"))
}

func TestFindCodes(t *testing.T) {
	c := New()

	codes := c.FindCodes("compare pacs.008 with pacs.8 and pain.001")
	assert.Equal(t, []string{"pacs.008", "pain.001"}, codes)

	// Valid shape but not in the catalog.
	assert.Empty(t, c.FindCodes("what about pain.999?"))
	assert.Empty(t, c.FindCodes(""))
}

func TestSectionRangesWithinDocumentBounds(t *testing.T) {
	c := New()

	for _, code := range c.Codes() {
		fam, ok := FamilyOf(code)
		require.True(t, ok, "code %s has no family", code)
		extent := c.Extent(fam)

		for _, sec := range Sections() {
			r, ok := c.SectionRange(code, sec)
			require.True(t, ok, "no %s range for %s", sec, code)
			assert.Positive(t, r.Start, "%s %s start", code, sec)
			assert.LessOrEqual(t, r.Start, r.End, "%s %s start>end", code, sec)
			assert.LessOrEqual(t, r.End, extent, "%s %s end past document", code, sec)
		}
	}
}

func TestSectionRangeIncludesNextHeadingPageForConstraints(t *testing.T) {
	c := New()

	// pacs.008: constraints start 446, blocks start 451. Constraint text runs
	// onto the blocks heading page, so the range must include page 451.
	r, ok := c.SectionRange("pacs.008", SectionConstraints)
	require.True(t, ok)
	assert.Equal(t, PageRange{Start: 446, End: 451}, r)

	// Structure stops before the constraints heading page.
	r, ok = c.SectionRange("pacs.008", SectionStructure)
	require.True(t, ok)
	assert.Equal(t, PageRange{Start: 441, End: 445}, r)

	// Blocks is the last section and runs to the end of the chapter.
	r, ok = c.SectionRange("pacs.008", SectionBlocks)
	require.True(t, ok)
	assert.Equal(t, PageRange{Start: 451, End: 519}, r)
}

func TestSectionRangeUnknownCode(t *testing.T) {
	c := New()
	_, ok := c.SectionRange("pacs.999", SectionBlocks)
	assert.False(t, ok)
}

func TestFamilyOfAndFileFor(t *testing.T) {
	fam, ok := FamilyOf("camt.029")
	require.True(t, ok)
	assert.Equal(t, FamilyCAMT, fam)
	assert.Equal(t, "camt_messages.pdf", FileFor(fam))

	_, ok = FamilyOf("nonsense")
	assert.False(t, ok)
}

func TestDefinitionPresentForEveryCode(t *testing.T) {
	c := New()
	for _, code := range c.Codes() {
		assert.NotEmpty(t, c.Definition(code), "missing definition for %s", code)
	}
}
