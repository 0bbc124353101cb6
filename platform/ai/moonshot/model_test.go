package moonshot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestGenerateContent_SendsChatCompletion(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  Namaste!  "}}]}`)
	}))
	defer srv.Close()

	m := NewModel(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})

	var resp *model.LLMResponse
	var err error
	for r, e := range m.GenerateContent(context.Background(), &model.LLMRequest{Contents: genai.Text("Say hello")}, false) {
		resp, err = r, e
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer k" {
		t.Fatalf("expected bearer auth, got %q", auth)
	}
	if got.Model != "kimi-k2-turbo-preview" {
		t.Fatalf("expected default model, got %q", got.Model)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "Say hello" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	if resp.Content.Parts[0].Text != "Namaste!" {
		t.Fatalf("unexpected reply %q", resp.Content.Parts[0].Text)
	}
}

func TestGenerateContent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid key","type":"auth"}}`)
	}))
	defer srv.Close()

	m := NewModel(Config{APIKey: "bad", BaseURL: srv.URL})

	for _, err := range m.GenerateContent(context.Background(), &model.LLMRequest{Contents: genai.Text("hi")}, false) {
		if err == nil {
			t.Fatal("expected error for invalid key")
		}
	}
}

func TestConvertMessages_MapsModelRole(t *testing.T) {
	contents := []*genai.Content{
		genai.NewContentFromText("question", genai.RoleUser),
		genai.NewContentFromText("answer", genai.RoleModel),
		nil,
		genai.NewContentFromText("   ", genai.RoleUser),
	}

	msgs := convertMessages(contents)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Role != "assistant" {
		t.Fatalf("expected assistant role, got %q", msgs[1].Role)
	}
}
