package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepgramTranscribe(t *testing.T) {
	var gotQuery, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"results":{"channels":[{"alternatives":[{"transcript":"Jodhpur fort","confidence":0.97}]}]}}`)
	}))
	defer srv.Close()

	d := NewDeepgramRecognizer(DeepgramConfig{APIKey: "dg", BaseURL: srv.URL, Language: "en"})

	text, err := d.Transcribe(context.Background(), spokenClip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jodhpur fort" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if gotAuth != "Token dg" || gotType != "audio/wav" {
		t.Fatalf("unexpected headers auth=%q type=%q", gotAuth, gotType)
	}
	if gotQuery != "language=en&model=nova-2&smart_format=true" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if string(gotBody[:4]) != "RIFF" {
		t.Fatal("expected wav body")
	}
}

func TestDeepgramTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "empty transcript", status: http.StatusOK, body: `{"results":{"channels":[{"alternatives":[{"transcript":""}]}]}}`, want: ErrUnintelligible},
		{name: "no channels", status: http.StatusOK, body: `{"results":{"channels":[]}}`, want: ErrUnintelligible},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"err_msg":"invalid credentials"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewDeepgramRecognizer(DeepgramConfig{APIKey: "dg", BaseURL: srv.URL}).Transcribe(context.Background(), spokenClip())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
