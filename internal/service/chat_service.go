package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"iso20022-assistant-be/internal/constant"
	"iso20022-assistant-be/internal/dto"
	"iso20022-assistant-be/internal/pkg/logger"
	"iso20022-assistant-be/pkg/docstore"
	"iso20022-assistant-be/pkg/rag/compose"
	"iso20022-assistant-be/pkg/rag/extract"
	"iso20022-assistant-be/pkg/rag/intent"
	"iso20022-assistant-be/pkg/rag/locate"
	"iso20022-assistant-be/pkg/rewrite"

	"github.com/google/uuid"
)

type IChatService interface {
	Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	classifier *intent.Classifier
	locator    *locate.Locator
	store      *docstore.Store
	composer   *compose.Composer
	rewriter   *rewrite.Rewriter
	logger     logger.ILogger
}

func NewChatService(
	classifier *intent.Classifier,
	locator *locate.Locator,
	store *docstore.Store,
	composer *compose.Composer,
	rewriter *rewrite.Rewriter,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		classifier: classifier,
		locator:    locator,
		store:      store,
		composer:   composer,
		rewriter:   rewriter,
		logger:     sysLogger,
	}
}

// Ask runs the full pipeline: classify, locate, extract, compose, rewrite.
// Every recognizable failure mode yields a guidance answer, not an error;
// an error return means the service itself is broken (e.g. a document page
// could not be read).
func (s *chatService) Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	requestId := uuid.NewString()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return plainAnswer(constant.EmptyQueryMessage), nil
	}

	if intent.IsSmallTalk(query) {
		s.logger.Info("chat", "small talk", map[string]interface{}{"request_id": requestId})
		return plainAnswer(constant.SmallTalkReply), nil
	}

	q, err := s.classifier.Classify(query)
	if err != nil {
		if errors.Is(err, intent.ErrEmptyQuery) {
			return plainAnswer(constant.EmptyQueryMessage), nil
		}
		return nil, err
	}

	s.logger.Info("chat", "question classified", map[string]interface{}{
		"request_id": requestId,
		"code":       q.MessageCode,
		"facet":      string(q.Facet),
		"field_tag":  q.FieldTag,
	})

	if q.MessageCode == "" {
		res := s.composer.NotFound(q, constant.MessageNotRecognizedMessage)
		return fromResult(res), nil
	}

	// Structure content is a large nested table, better read in the PDF
	// itself. Answer with the citation only.
	if q.Facet == intent.FacetStructure {
		return s.locationAnswer(q, requestId)
	}

	loc, err := s.locator.Locate(q.MessageCode, q.Facet)
	if err != nil {
		if errors.Is(err, locate.ErrSectionNotFound) {
			res := s.composer.NotFound(q, fmt.Sprintf(constant.SectionNotFoundMessage, q.MessageCode))
			return fromResult(res), nil
		}
		return nil, err
	}

	pages, err := s.store.ExtractRange(q.Family, loc.Range)
	if err != nil {
		s.logger.Error("chat", "page extraction failed", map[string]interface{}{
			"request_id": requestId,
			"code":       q.MessageCode,
			"error":      err.Error(),
		})
		return nil, err
	}

	snip, err := extract.ForFacet(q.Facet).Extract(pages, q)
	if err != nil {
		if errors.Is(err, extract.ErrAnchorNotFound) {
			// A bare building-blocks question still has a useful location
			// answer even when the heading could not be matched.
			if q.Facet == intent.FacetBlocks && q.FieldTag == "" {
				return s.locationAnswer(q, requestId)
			}
			msg := fmt.Sprintf(constant.TermNotFoundMessage, q.MessageCode)
			if q.FieldTag != "" {
				msg = fmt.Sprintf(constant.AnchorNotFoundMessage, q.FieldTag, q.MessageCode)
			}
			res := s.composer.NotFound(q, msg)
			return fromResult(res), nil
		}
		return nil, err
	}

	body, rewritten := s.rewriter.Rewrite(ctx, query, snip.Text)
	if s.rewriter.Enabled() && !rewritten {
		s.logger.Warn("chat", "rewrite unavailable, serving raw text", map[string]interface{}{
			"request_id": requestId,
			"code":       q.MessageCode,
		})
		body += constant.RewriteUnavailableNote
	}
	snip.Text = body

	res := s.composer.Compose(q, snip)
	s.logger.Info("chat", "question answered", map[string]interface{}{
		"request_id": requestId,
		"code":       q.MessageCode,
		"page":       snip.Page,
		"rewritten":  rewritten,
	})
	return fromResult(res), nil
}

func (s *chatService) locationAnswer(q *intent.Query, requestId string) (*dto.ChatResponse, error) {
	page, err := s.locator.SectionStart(q.MessageCode, q.Facet)
	if err != nil {
		res := s.composer.NotFound(q, fmt.Sprintf(constant.SectionNotFoundMessage, q.MessageCode))
		return fromResult(res), nil
	}

	res := s.composer.LocationOnly(q, page)
	s.logger.Info("chat", "location answer", map[string]interface{}{
		"request_id": requestId,
		"code":       q.MessageCode,
		"facet":      string(q.Facet),
		"page":       page,
	})
	return fromResult(res), nil
}

func plainAnswer(text string) *dto.ChatResponse {
	return &dto.ChatResponse{Answer: text}
}

func fromResult(res compose.AnswerResult) *dto.ChatResponse {
	out := &dto.ChatResponse{Answer: res.Text, Page: res.Page}
	if res.Link != "" {
		link := res.Link
		out.Link = &link
	}
	return out
}
