package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	msgEmptyQuery     = "Please enter a question."
	msgBackendFailure = "The language service failed to answer. Please try again."
)

var errEmptyResponse = errors.New("language backend returned no text")

// Service sends queries to the language backend.
type Service struct {
	llm     model.LLM
	log     *logger.Logger
	metrics metrics.Recorder
}

func NewService(llm model.LLM, log *logger.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		llm:     llm,
		log:     log.WithComponent("assistant"),
		metrics: rec,
	}
}

// Ask sends one query and returns the generated text.
// A blank query fails with a validation error before any backend call.
// Any backend failure, including an empty generation, is an upstream error.
func (s *Service) Ask(ctx context.Context, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, apperr.Validation(msgEmptyQuery).WithOp("assistant.Ask")
	}

	start := time.Now()
	text, err := s.generate(ctx, query)
	elapsed := time.Since(start)

	s.metrics.ObserveUpstream(metrics.ComponentLanguage, elapsed, err)
	s.log.WithContext(ctx).UpstreamCall(s.llm.Name(), elapsed, err)

	if err != nil {
		return Answer{}, apperr.Upstream(msgBackendFailure, err).WithOp("assistant.Ask")
	}

	return Answer{Query: query, Text: text}, nil
}

func (s *Service) generate(ctx context.Context, query string) (string, error) {
	req := &model.LLMRequest{
		Contents: genai.Text(query),
	}

	var builder strings.Builder
	for resp, err := range s.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		appendResponseText(&builder, resp)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func appendResponseText(builder *strings.Builder, resp *model.LLMResponse) {
	if resp == nil || resp.Content == nil {
		return
	}
	for _, part := range resp.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}
}
