package constant

const (
	// SmallTalkReply answers greetings before any document logic runs.
	SmallTalkReply = `Hello! I can help you with ISO 20022 payment messages.

Ask me about any pain, pacs or camt message, for example:
- "What is pacs.008?"
- "Show me the constraints of pain.001"
- "What does MsgId mean in camt.052?"`

	// EmptyQueryMessage is returned for empty or whitespace-only questions.
	EmptyQueryMessage = "Please type a question about an ISO 20022 payment message, for example \"What is pain.001?\"."

	// MessageNotRecognizedMessage is returned when no known message code could
	// be identified in the question.
	MessageNotRecognizedMessage = `I couldn't identify which ISO 20022 message you mean.

Please include a message code in your question, such as pain.001, pacs.008 or camt.053.`

	// SectionNotFoundMessage is returned when the index has no section for the
	// requested message and facet.
	SectionNotFoundMessage = "I couldn't find the relevant section for %s in the reference documentation."

	// AnchorNotFoundMessage is returned when the section was located but the
	// requested term does not occur in it.
	AnchorNotFoundMessage = "I couldn't find \"%s\" in the %s documentation. It may be spelled differently in the reference document."

	// TermNotFoundMessage is the variant without a specific term.
	TermNotFoundMessage = "I couldn't extract the requested content from the %s documentation."

	// RewriteUnavailableNote is appended when the language model could not be
	// reached and the raw extracted text is served instead.
	RewriteUnavailableNote = "\n\n_Note: the answer assistant is currently unavailable, so the text above is shown as extracted from the document._"
)
