package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iso20022-assistant-be/internal/constant"
	"iso20022-assistant-be/internal/dto"
	"iso20022-assistant-be/pkg/catalog"
	"iso20022-assistant-be/pkg/docstore"
	"iso20022-assistant-be/pkg/rag/compose"
	"iso20022-assistant-be/pkg/rag/intent"
	"iso20022-assistant-be/pkg/rag/locate"
	"iso20022-assistant-be/pkg/rewrite"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// newTestService wires the pipeline against an in-memory pacs document with
// content placed at the pages the index points to. Rewriting is disabled so
// answers are deterministic.
func newTestService(t *testing.T) IChatService {
	t.Helper()

	cat := catalog.New()
	pages := make([]string, cat.Extent(catalog.FamilyPACS))

	// Functionality chapter of pacs.008 (pages 440-441).
	pages[439] = "Scope\nThe FIToFICustomerCreditTransfer message is sent by the debtor agent to the creditor agent."

	// Building-blocks chapter of pacs.008 (pages 451 onward).
	pages[450] = "3.4 Message Building Blocks\n" +
		"This chapter lists the message building blocks.\n" +
		"GroupHeader <GrpHdr> [1..1]"
	pages[451] = "MessageIdentification <MsgId>\n" +
		"Definition: Point to point reference assigned by the instructing party to unambiguously identify the message.\n" +
		"Usage: The identification must be unique per instructed party."

	store := docstore.NewStore(nil)
	store.Add(catalog.FamilyPACS, catalog.FileFor(catalog.FamilyPACS), &docstore.MemorySource{Pages: pages})

	rewriter := rewrite.New(nil, nil, time.Second, false, nil)

	return NewChatService(
		intent.NewClassifier(cat),
		locate.New(cat),
		store,
		compose.New(cat, "http://localhost:8000"),
		rewriter,
		noopLogger{},
	)
}

func TestAskEmptyQuery(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "   "})
	require.NoError(t, err)

	assert.Equal(t, constant.EmptyQueryMessage, res.Answer)
	assert.Nil(t, res.Page)
	assert.Nil(t, res.Link)
}

func TestAskSmallTalk(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "hello"})
	require.NoError(t, err)

	assert.Equal(t, constant.SmallTalkReply, res.Answer)
	assert.Nil(t, res.Page)
}

func TestAskFieldDefinition(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "What is MsgId in pacs.008?"})
	require.NoError(t, err)

	assert.Contains(t, res.Answer, "Point to point reference")
	require.NotNil(t, res.Page)
	assert.Equal(t, 452, *res.Page)
	require.NotNil(t, res.Link)
	assert.Contains(t, *res.Link, "pacs_messages.pdf#page=452")
	// Rewriting is off entirely, so no degradation note either.
	assert.NotContains(t, res.Answer, "currently unavailable")
}

func TestAskUnknownMessage(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "what is xyz.999?"})
	require.NoError(t, err)

	assert.Equal(t, constant.MessageNotRecognizedMessage, res.Answer)
	assert.Nil(t, res.Page)
}

func TestAskStructureAnswersLocationOnly(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "show me the structure of pacs.008"})
	require.NoError(t, err)

	require.NotNil(t, res.Page)
	assert.Equal(t, 441, *res.Page)
	assert.Contains(t, res.Answer, "📍 Page: 441")
}

func TestAskExplainMessage(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "explain pacs.008"})
	require.NoError(t, err)

	assert.Contains(t, res.Answer, "debtor agent")
	require.NotNil(t, res.Page)
	assert.Equal(t, 440, *res.Page)
}

func TestAskUnknownFieldTag(t *testing.T) {
	s := newTestService(t)

	res, err := s.Ask(context.Background(), dto.ChatRequest{Query: "What is <NoSuchTag> in pacs.008?"})
	require.NoError(t, err)

	assert.Contains(t, res.Answer, "NoSuchTag")
	assert.Nil(t, res.Page)
	// The right document is still linked.
	require.NotNil(t, res.Link)
	assert.True(t, strings.HasSuffix(*res.Link, "pacs_messages.pdf"))
}

func TestAskIsDeterministic(t *testing.T) {
	s := newTestService(t)
	req := dto.ChatRequest{Query: "What is MsgId in pacs.008?"}

	first, err := s.Ask(context.Background(), req)
	require.NoError(t, err)
	second, err := s.Ask(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
