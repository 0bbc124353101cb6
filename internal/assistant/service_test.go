package assistant

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "ava_assistant/internal/http"
	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
	"ava_assistant/platform/validator"

	"github.com/gin-gonic/gin"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLLM struct {
	calls   int
	lastReq *model.LLMRequest
	parts   []*genai.Part
	err     error
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) GenerateContent(_ context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	f.calls++
	f.lastReq = req
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		yield(&model.LLMResponse{Content: &genai.Content{Role: genai.RoleModel, Parts: f.parts}}, nil)
	}
}

type recorder struct {
	components []string
	errs       []error
}

func (r *recorder) ObserveUpstream(component string, _ time.Duration, err error) {
	r.components = append(r.components, component)
	r.errs = append(r.errs, err)
}

func TestAsk_ReturnsGeneratedText(t *testing.T) {
	llm := &fakeLLM{parts: []*genai.Part{
		{Text: "planning...", Thought: true},
		genai.NewPartFromText("Mehrangarh Fort "),
		genai.NewPartFromText("overlooks Jodhpur."),
	}}
	rec := &recorder{}
	svc := NewService(llm, logger.Discard(), rec)

	answer, err := svc.Ask(context.Background(), "  What is in Jodhpur?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text != "Mehrangarh Fort overlooks Jodhpur." {
		t.Fatalf("unexpected text %q", answer.Text)
	}
	if answer.Query != "What is in Jodhpur?" {
		t.Fatalf("expected trimmed query, got %q", answer.Query)
	}
	if got := llm.lastReq.Contents[0].Parts[0].Text; got != "What is in Jodhpur?" {
		t.Fatalf("expected query sent verbatim, got %q", got)
	}
	if len(rec.components) != 1 || rec.components[0] != metrics.ComponentLanguage || rec.errs[0] != nil {
		t.Fatalf("expected one successful language observation, got %+v", rec)
	}
}

func TestAsk_BlankQuerySkipsBackend(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewService(llm, logger.Discard(), nil)

	_, err := svc.Ask(context.Background(), " \n\t")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if llm.calls != 0 {
		t.Fatalf("expected no backend call, got %d", llm.calls)
	}
}

func TestAsk_BackendFailureIsUpstream(t *testing.T) {
	cause := errors.New("quota exceeded")
	svc := NewService(&fakeLLM{err: cause}, logger.Discard(), nil)

	_, err := svc.Ask(context.Background(), "hello")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain, got %v", err)
	}
}

func TestAsk_EmptyGenerationIsUpstream(t *testing.T) {
	svc := NewService(&fakeLLM{parts: []*genai.Part{genai.NewPartFromText("   ")}}, logger.Discard(), nil)

	_, err := svc.Ask(context.Background(), "hello")
	if !errors.Is(err, errEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func newTestRouter(llm model.LLM) *gin.Engine {
	engine := gin.New()
	mod := NewModule(llm, validator.New(), logger.Discard(), nil)
	mod.RegisterRoutes(&apphttp.RouterContext{
		Engine:    engine,
		V1:        engine.Group("/api/v1"),
		RateLimit: func(c *gin.Context) { c.Next() },
	})
	return engine
}

func TestHandlerAsk(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		llm        *fakeLLM
		wantStatus int
		wantBody   string
	}{
		{
			name:       "answers query",
			body:       `{"query":"hello"}`,
			llm:        &fakeLLM{parts: []*genai.Part{genai.NewPartFromText("Hi there")}},
			wantStatus: http.StatusOK,
			wantBody:   `"text":"Hi there"`,
		},
		{
			name:       "rejects blank query",
			body:       `{"query":"   "}`,
			llm:        &fakeLLM{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects malformed body",
			body:       `{`,
			llm:        &fakeLLM{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "maps backend failure",
			body:       `{"query":"hello"}`,
			llm:        &fakeLLM{err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
			wantBody:   msgBackendFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.llm)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/ask", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}
