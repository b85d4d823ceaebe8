package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iso20022-assistant-be/pkg/docstore"
	"iso20022-assistant-be/pkg/rag/intent"
)

// blocksPages mimics the cleaned building-blocks section of pacs.008.
func blocksPages() []docstore.PageText {
	return []docstore.PageText{
		{Page: 451, Text: "3.4 Message Building Blocks\n" +
			"This chapter describes the message building blocks of this message definition.\n" +
			"GroupHeader <GrpHdr> [1..1]\n" +
			"CreditTransferTransactionInformation <CdtTrfTxInf> [1..*]"},
		{Page: 452, Text: "3.4.1 GroupHeader <GrpHdr>\n" +
			"Presence: [1..1]\n" +
			"Definition: Set of characteristics shared by all individual transactions included in the message.\n" +
			"Usage: The group header must be present exactly once.\n" +
			"MessageIdentification <MsgId>\n" +
			"Definition: Point to point reference assigned by the instructing party to unambiguously identify the message.\n" +
			"Usage: The instructing party has to make sure the identification is unique per instructed party."},
		{Page: 453, Text: "3.4.2 CreditTransferTransactionInformation <CdtTrfTxInf>\n" +
			"Definition: Set of elements providing information specific to the individual credit transfer."},
	}
}

func TestFieldStrategyDefinitionOfTag(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetDefinition, FieldTag: "MsgId"}

	snip, err := FieldStrategy{}.Extract(blocksPages(), q)
	require.NoError(t, err)

	assert.Equal(t, 452, snip.Page)
	assert.Contains(t, snip.Text, "Point to point reference")
	// Definition facet trims off the Usage sentence.
	assert.NotContains(t, snip.Text, "unique per instructed party")
}

func TestFieldStrategyUsageOfTag(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetUsage, FieldTag: "MsgId"}

	snip, err := FieldStrategy{}.Extract(blocksPages(), q)
	require.NoError(t, err)

	assert.Equal(t, 452, snip.Page)
	assert.Contains(t, snip.Text, "unique per instructed party")
	assert.NotContains(t, snip.Text, "Point to point reference")
}

func TestFieldStrategyFirstOccurrenceWins(t *testing.T) {
	pages := []docstore.PageText{
		{Page: 10, Text: "GroupHeader <GrpHdr>\nDefinition: First mention wins."},
		{Page: 20, Text: "GroupHeader <GrpHdr>\nDefinition: Second mention must be ignored."},
	}
	q := &intent.Query{Facet: intent.FacetField, FieldTag: "GrpHdr"}

	snip, err := FieldStrategy{}.Extract(pages, q)
	require.NoError(t, err)
	assert.Equal(t, 10, snip.Page)
	assert.Contains(t, snip.Text, "First mention wins")
	assert.NotContains(t, snip.Text, "Second mention")
}

func TestFieldStrategyHeadingStartsPage(t *testing.T) {
	// The element heading is the first line of its page, with the tag already
	// mentioned in the summary list of the page before. The heading anchor
	// must win, with the heading's own page cited, not the list mention's.
	pages := []docstore.PageText{
		{Page: 30, Text: "3.4 Message Building Blocks\n" +
			"DebtorAgent <DbtrAgt> [1..1]\n" +
			"CreditorAgent <CdtrAgt> [1..1]"},
		{Page: 31, Text: "DebtorAgent <DbtrAgt>\n" +
			"Presence: [1..1]\n" +
			"Definition: Financial institution servicing an account for the debtor."},
	}
	q := &intent.Query{Facet: intent.FacetField, FieldTag: "DbtrAgt"}

	snip, err := FieldStrategy{}.Extract(pages, q)
	require.NoError(t, err)

	assert.Equal(t, 31, snip.Page)
	assert.Contains(t, snip.Text, "Financial institution servicing")
	assert.NotContains(t, snip.Text, "CreditorAgent")
}

func TestFieldStrategyTermRecordsMatchedAnchor(t *testing.T) {
	pages := []docstore.PageText{
		{Page: 5, Text: "pacs.010 overview\nDefinition: Direct debit instruction between agents."},
	}
	q := &intent.Query{MessageCode: "pacs.010", Facet: intent.FacetField, FieldTag: "MissingTag"}

	snip, err := FieldStrategy{}.Extract(pages, q)
	require.NoError(t, err)

	// The field tag never matched; the snippet came from the message-code
	// anchor and must say so.
	assert.Equal(t, "pacs.010", snip.Term)
	assert.Equal(t, 5, snip.Page)
}

func TestFieldStrategyAnchorMissing(t *testing.T) {
	q := &intent.Query{Facet: intent.FacetField, FieldTag: "Nonexistent"}

	_, err := FieldStrategy{}.Extract(blocksPages(), q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestFieldStrategyEmptyCorpus(t *testing.T) {
	q := &intent.Query{Facet: intent.FacetField, FieldTag: "MsgId"}

	_, err := FieldStrategy{}.Extract(nil, q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = FieldStrategy{}.Extract([]docstore.PageText{{Page: 1, Text: "  "}}, q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestBlocksStrategyCapturesList(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetBlocks}

	snip, err := BlocksStrategy{}.Extract(blocksPages(), q)
	require.NoError(t, err)

	assert.Equal(t, 451, snip.Page)
	assert.Equal(t, "Message Building Blocks", snip.Term)
	assert.Contains(t, snip.Text, "GroupHeader <GrpHdr>")
	// Stops before the first per-element heading.
	assert.NotContains(t, snip.Text, "Presence:")
}

func TestBlocksStrategyWithTagDelegatesToField(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetBlocks, FieldTag: "GrpHdr"}

	snip, err := BlocksStrategy{}.Extract(blocksPages(), q)
	require.NoError(t, err)
	assert.Equal(t, 452, snip.Page)
	assert.Contains(t, snip.Text, "Set of characteristics")
}

func TestBlocksStrategyHeadingMissing(t *testing.T) {
	pages := []docstore.PageText{{Page: 1, Text: "nothing relevant here"}}
	q := &intent.Query{Facet: intent.FacetBlocks}

	_, err := BlocksStrategy{}.Extract(pages, q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func constraintPages() []docstore.PageText {
	return []docstore.PageText{
		{Page: 446, Text: "tail of the structure table\n" +
			"3.3 Constraints\n" +
			"C1 GroupAndStatus\nIf GroupStatus is present then TransactionStatus is not allowed.\n" +
			"C2 ChargesAmountRule\nChargesAmount must be provided when ChargeBearer is CRED."},
		{Page: 447, Text: "C3 SettlementMethodRule\nSettlementMethod must match the clearing channel.\n" +
			"3.4 Message Building Blocks\nGroupHeader <GrpHdr>"},
	}
}

func TestConstraintsStrategyFullSection(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetConstraints}

	snip, err := ConstraintsStrategy{}.Extract(constraintPages(), q)
	require.NoError(t, err)

	assert.Equal(t, 446, snip.Page)
	assert.Contains(t, snip.Text, "C1 GroupAndStatus")
	assert.Contains(t, snip.Text, "C3 SettlementMethodRule")
	// Trimmed at the next section's heading even though its page is in range.
	assert.NotContains(t, snip.Text, "Message Building Blocks")
	// And nothing from before the Constraints heading.
	assert.NotContains(t, snip.Text, "structure table")
}

func TestConstraintsStrategySpecificCode(t *testing.T) {
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetConstraints, FieldTag: "C2"}

	snip, err := ConstraintsStrategy{}.Extract(constraintPages(), q)
	require.NoError(t, err)

	assert.Equal(t, 446, snip.Page)
	assert.Equal(t, "C2", snip.Term)
	assert.Contains(t, snip.Text, "ChargesAmount must be provided")
	assert.NotContains(t, snip.Text, "GroupStatus")
	assert.NotContains(t, snip.Text, "SettlementMethod")
}

func TestConstraintsStrategyUnknownCode(t *testing.T) {
	q := &intent.Query{Facet: intent.FacetConstraints, FieldTag: "C99"}

	_, err := ConstraintsStrategy{}.Extract(constraintPages(), q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestExplainStrategyTrimsAtStructureHeading(t *testing.T) {
	pages := []docstore.PageText{
		{Page: 440, Text: "The pacs.008 message is sent by the debtor agent to the creditor agent.\n" +
			"Scope\nIt is used to move funds between financial institutions.\n" +
			"3.2 Structure\nMessageElement table follows"},
	}
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetExplain}

	snip, err := ExplainStrategy{}.Extract(pages, q)
	require.NoError(t, err)

	assert.Equal(t, 440, snip.Page)
	assert.Contains(t, snip.Text, "move funds between financial institutions")
	assert.NotContains(t, snip.Text, "MessageElement table")
}

func TestExplainStrategyScopeFallback(t *testing.T) {
	// The version-stamped chapter title is removed by cleaning, so the code
	// itself may never appear; the Scope heading still anchors the answer.
	pages := []docstore.PageText{
		{Page: 440, Text: "Scope\nThe FIToFICustomerCreditTransfer message is sent by the debtor agent."},
	}
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetExplain}

	snip, err := ExplainStrategy{}.Extract(pages, q)
	require.NoError(t, err)
	assert.Equal(t, 440, snip.Page)
	assert.Contains(t, snip.Text, "debtor agent")
}

func TestExplainStrategyNoAnchor(t *testing.T) {
	pages := []docstore.PageText{{Page: 1, Text: "completely unrelated content"}}
	q := &intent.Query{MessageCode: "pacs.008", Facet: intent.FacetExplain}

	_, err := ExplainStrategy{}.Extract(pages, q)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestForFacet(t *testing.T) {
	assert.Equal(t, "field", ForFacet(intent.FacetDefinition).Name())
	assert.Equal(t, "field", ForFacet(intent.FacetUsage).Name())
	assert.Equal(t, "field", ForFacet(intent.FacetField).Name())
	assert.Equal(t, "blocks", ForFacet(intent.FacetBlocks).Name())
	assert.Equal(t, "constraints", ForFacet(intent.FacetConstraints).Name())
	assert.Equal(t, "explain", ForFacet(intent.FacetExplain).Name())
}

func TestFormatConstraints(t *testing.T) {
	in := "C1 GroupAndStatus\nIf GroupStatus is present then TransactionStatus is not allowed.\n" +
		"C2 ChargesAmountRule\nChargesAmount must be provided."
	out := FormatConstraints(in)

	assert.Contains(t, out, "**C1 GroupAndStatus**")
	assert.Contains(t, out, "**C2 ChargesAmountRule**")
	assert.Contains(t, out, "TransactionStatus is not allowed")
}

func TestFormatConstraintsPassThroughWithoutBlocks(t *testing.T) {
	assert.Equal(t, "free text", FormatConstraints("free text"))
}

func TestCorpusPageAttribution(t *testing.T) {
	c := NewCorpus([]docstore.PageText{
		{Page: 7, Text: "aaaa"},
		{Page: 8, Text: "bbbb"},
		{Page: 9, Text: "cccc"},
	})

	assert.Equal(t, 7, c.PageAt(0))
	assert.Equal(t, 7, c.FirstPage())

	// "bbbb" starts after "aaaa" + separator.
	idx := len("aaaa") + len("\n\n")
	assert.Equal(t, 8, c.PageAt(idx))
	assert.Equal(t, 9, c.PageAt(len(c.Text)-1))
}
