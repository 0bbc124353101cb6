package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DeepgramConfig for the hosted Deepgram listen API.
type DeepgramConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Timeout  time.Duration
}

// DeepgramRecognizer posts WAV clips to Deepgram's pre-recorded endpoint.
type DeepgramRecognizer struct {
	config DeepgramConfig
	client *http.Client
}

func NewDeepgramRecognizer(cfg DeepgramConfig) *DeepgramRecognizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &DeepgramRecognizer{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *DeepgramRecognizer) Name() string {
	return "deepgram:" + d.config.Model
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *DeepgramRecognizer) Transcribe(ctx context.Context, clip Clip) (string, error) {
	query := url.Values{}
	query.Set("model", d.config.Model)
	query.Set("smart_format", "true")
	if d.config.Language != "" {
		query.Set("language", d.config.Language)
	}
	endpoint := strings.TrimRight(d.config.BaseURL, "/") + "/v1/listen?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(clip.WAV()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+d.config.APIKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("deepgram read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed deepgramResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode deepgram: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", ErrUnintelligible
	}

	text := strings.TrimSpace(parsed.Results.Channels[0].Alternatives[0].Transcript)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
