package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func collect(t *testing.T, m *Model, req *model.LLMRequest) (*model.LLMResponse, error) {
	t.Helper()
	var (
		out    *model.LLMResponse
		outErr error
	)
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		out, outErr = resp, err
	}
	return out, outErr
}

func TestGenerateContent_ReturnsCandidateContent(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Jodhpur is the Blue City."}]}}]}`)
	}))
	defer srv.Close()

	m := NewModel(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL + "/"})

	resp, err := collect(t, m, &model.LLMRequest{Contents: genai.Text("Tell me about Jodhpur")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Content == nil || len(resp.Content.Parts) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Content.Parts[0].Text != "Jodhpur is the Blue City." {
		t.Fatalf("unexpected text %q", resp.Content.Parts[0].Text)
	}
	if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
		t.Fatalf("expected default model in path, got %q", gotPath)
	}
	if !strings.Contains(gotBody, "Tell me about Jodhpur") {
		t.Fatalf("expected prompt in request body, got %q", gotBody)
	}
}

func TestGenerateContent_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	}))
	defer srv.Close()

	m := NewModel(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL + "/"})

	if _, err := collect(t, m, &model.LLMRequest{Contents: genai.Text("hi")}); err == nil {
		t.Fatal("expected error for upstream 500")
	}
}

func TestGenerateContent_MissingKeyFailsAtCallTime(t *testing.T) {
	m := NewModel(context.Background(), Config{})

	if !errors.Is(m.Err(), ErrMissingAPIKey) {
		t.Fatalf("expected missing key init error, got %v", m.Err())
	}
	if _, err := collect(t, m, &model.LLMRequest{Contents: genai.Text("hi")}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
