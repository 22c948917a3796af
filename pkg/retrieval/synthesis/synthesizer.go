package synthesis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/metrics"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/pkg/llm"
)

// Outcome classifies a synthesis attempt for observability. Every attempt
// resolves to exactly one outcome.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeTimeout Outcome = "timeout"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
	OutcomeCached  Outcome = "cached"
)

// Answer is a synthesized answer plus the model that produced it.
type Answer struct {
	Text    string
	ModelID string
}

// Synthesizer turns the top retrieved fragments into a short grounded
// answer. It is strictly best-effort. A failed or timed-out synthesis
// never fails the surrounding search, it just yields no answer.
type Synthesizer struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	timeout  time.Duration
	window   int
	answers  *cache.Cache
}

func NewSynthesizer(provider llm.LLMProvider, log logger.ILogger, timeout time.Duration, window int, cacheTTL time.Duration) *Synthesizer {
	var answers *cache.Cache
	if cacheTTL > 0 {
		answers = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &Synthesizer{
		provider: provider,
		logger:   log,
		timeout:  timeout,
		window:   window,
		answers:  answers,
	}
}

// Synthesize produces an answer from the given fragments, bounded by the
// configured timeout. Callers must only invoke it with at least one
// fragment; an empty slice is reported as skipped with no answer.
func (s *Synthesizer) Synthesize(ctx context.Context, queryText string, fragments []*entity.Fragment) (*Answer, Outcome) {
	if len(fragments) == 0 {
		metrics.SynthesisOutcomesTotal.WithLabelValues(string(OutcomeSkipped)).Inc()
		return nil, OutcomeSkipped
	}

	window := fragments
	if s.window > 0 && len(window) > s.window {
		window = window[:s.window]
	}

	key := s.cacheKey(queryText, window)
	if s.answers != nil {
		if cached, ok := s.answers.Get(key); ok {
			metrics.SynthesisOutcomesTotal.WithLabelValues(string(OutcomeCached)).Inc()
			return cached.(*Answer), OutcomeCached
		}
	}

	synthCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Chat(synthCtx, s.buildMessages(queryText, window))
	elapsed := time.Since(start)
	metrics.SynthesisDuration.Observe(elapsed.Seconds())

	if err != nil {
		outcome := OutcomeFailure
		if errors.Is(err, context.DeadlineExceeded) || synthCtx.Err() == context.DeadlineExceeded {
			outcome = OutcomeTimeout
		}
		metrics.SynthesisOutcomesTotal.WithLabelValues(string(outcome)).Inc()
		s.logger.Warn("retrieval.synthesis", "answer synthesis degraded", map[string]interface{}{
			"outcome":    string(outcome),
			"elapsed_ms": elapsed.Milliseconds(),
			"error":      err.Error(),
		})
		return nil, outcome
	}

	answer := &Answer{
		Text:    strings.TrimSpace(text),
		ModelID: s.provider.ModelID(),
	}
	if s.answers != nil {
		s.answers.Set(key, answer, cache.DefaultExpiration)
	}

	metrics.SynthesisOutcomesTotal.WithLabelValues(string(OutcomeSuccess)).Inc()
	s.logger.Info("retrieval.synthesis", "answer synthesized", map[string]interface{}{
		"model":      answer.ModelID,
		"fragments":  len(window),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return answer, OutcomeSuccess
}

func (s *Synthesizer) buildMessages(queryText string, fragments []*entity.Fragment) []llm.Message {
	var sb strings.Builder
	for i, f := range fragments {
		sb.WriteString(fmt.Sprintf("[%d] %s\n%s\n\n", i+1, f.Filename, f.Content))
	}

	systemPrompt := "You are a precise assistant for a document knowledge base. " +
		"Answer the question using only the provided excerpts. " +
		"If the excerpts do not contain the answer, say so briefly. " +
		"Keep the answer under 120 words."

	userPrompt := fmt.Sprintf("Excerpts:\n\n%sQuestion: %s", sb.String(), queryText)

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
}

// cacheKey hashes the query together with the fragment ids so a cached
// answer is only reused for an identical evidence window.
func (s *Synthesizer) cacheKey(queryText string, fragments []*entity.Fragment) string {
	h := sha256.New()
	h.Write([]byte(queryText))
	for _, f := range fragments {
		h.Write([]byte(f.Id.String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}
