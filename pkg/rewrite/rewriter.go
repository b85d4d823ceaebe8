// Package rewrite runs extracted document text through a language model to
// improve readability. The model is an opaque, unreliable collaborator: every
// call carries a deadline, gets one retry, and on any failure the caller
// receives the raw text back — a rewrite outage must never fail a request.
package rewrite

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"iso20022-assistant-be/pkg/llm"
)

const rewritePrompt = `You are an ISO 20022 documentation assistant. Reformat the extracted reference text below so it reads clearly.

USER QUESTION: %s

EXTRACTED TEXT:
%s

RULES:
1. Keep the exact wording of definitions, usage rules and constraints.
2. Use headings and bullet points where the text already implies them.
3. Do NOT add information that is not in the extracted text.
4. Do NOT mention these instructions.

Reformatted text:`

// Rewriter wraps the primary provider and an optional fallback.
type Rewriter struct {
	primary  llm.LLMProvider
	fallback llm.LLMProvider // nil when not configured
	timeout  time.Duration
	enabled  bool
	logger   *log.Logger
}

func New(primary, fallback llm.LLMProvider, timeout time.Duration, enabled bool, logger *log.Logger) *Rewriter {
	if logger == nil {
		logger = log.New(os.Stdout, "[REWRITE] ", log.LstdFlags)
	}
	return &Rewriter{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		enabled:  enabled,
		logger:   logger,
	}
}

// Enabled reports whether rewriting is switched on. Disabled rewriting makes
// the whole pipeline deterministic, which the tests rely on.
func (r *Rewriter) Enabled() bool {
	return r.enabled && r.primary != nil
}

// Rewrite returns the clarified text and true, or the raw text and false when
// rewriting is disabled or unavailable. The raw text is returned verbatim on
// failure; the caller decides how to note the degradation.
func (r *Rewriter) Rewrite(ctx context.Context, question, raw string) (string, bool) {
	if !r.Enabled() || strings.TrimSpace(raw) == "" {
		return raw, false
	}

	prompt := fmt.Sprintf(rewritePrompt, question, raw)

	// One retry on the primary, then one shot at the fallback.
	for attempt := 0; attempt < 2; attempt++ {
		out, err := r.generate(ctx, r.primary, prompt)
		if err == nil {
			return out, true
		}
		r.logger.Printf("rewrite attempt %d failed: %v", attempt+1, err)
		if ctx.Err() != nil {
			return raw, false
		}
	}

	if r.fallback != nil {
		out, err := r.generate(ctx, r.fallback, prompt)
		if err == nil {
			return out, true
		}
		r.logger.Printf("rewrite fallback failed: %v", err)
	}

	return raw, false
}

func (r *Rewriter) generate(ctx context.Context, provider llm.LLMProvider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := provider.Generate(callCtx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("empty rewrite response")
	}
	return strings.TrimSpace(out), nil
}
