package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/spacesedan/reviewcloud/internal/nlp"
)

var (
	taggerInstance *TaggerClient
	taggerOnce     sync.Once
)

type analyzeRequest struct {
	Text string `json:"text"`
}

// TaggerClient calls an external morphological analyzer service. The
// service answers POST /analyze with a JSON array of {"form","tag"}
// tokens and GET /health with 200 when ready.
type TaggerClient struct {
	Client     *http.Client
	analyzeURL string
	healthURL  string
	backoff    time.Duration
}

func NewTaggerClient(baseURL string, timeout time.Duration) (*TaggerClient, error) {
	analyzeURL, err := url.JoinPath(baseURL, "analyze")
	if err != nil {
		return nil, fmt.Errorf("invalid tagger endpoint %q: %w", baseURL, err)
	}
	healthURL, err := url.JoinPath(baseURL, "health")
	if err != nil {
		return nil, fmt.Errorf("invalid tagger endpoint %q: %w", baseURL, err)
	}
	return &TaggerClient{
		Client:     &http.Client{Timeout: timeout},
		analyzeURL: analyzeURL,
		healthURL:  healthURL,
		backoff:    INITIAL_BACKOFF,
	}, nil
}

// GetTaggerClient returns the process-wide client for baseURL. The first
// call wins; later calls get the same instance.
func GetTaggerClient(baseURL string, env string) (*TaggerClient, error) {
	var err error
	taggerOnce.Do(func() {
		timeout := 30 * time.Second
		if env == "production" {
			timeout = 10 * time.Second
		}
		slog.Info("[TaggerClient] Initializing Client",
			slog.String("endpoint", baseURL),
			slog.Duration("timeout", timeout),
			slog.String("env", env))
		taggerInstance, err = NewTaggerClient(baseURL, timeout)
	})
	if err != nil {
		return nil, err
	}
	if taggerInstance == nil {
		return nil, fmt.Errorf("tagger client failed to initialize")
	}
	return taggerInstance, nil
}

// Analyze implements nlp.Tagger.
func (t *TaggerClient) Analyze(ctx context.Context, text string) ([]nlp.Token, error) {
	var tokens []nlp.Token
	if err := t.postJSON(ctx, t.analyzeURL, analyzeRequest{Text: text}, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (t *TaggerClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.healthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)
	resp, err := t.Client.Do(req)
	if err != nil {
		slog.Warn("[TaggerClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// DoWithRetry retries transport errors and 5xx responses with doubling
// backoff. The request body is rewound before every retry.
func (t *TaggerClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := t.backoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		resp, err = t.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[TaggerClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if attempt == MAX_RETRIES-1 {
			break
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	if err == nil {
		err = fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil, err
}

func (t *TaggerClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := t.DoWithRetry(req)
	if err != nil {
		slog.Error("[TaggerClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("[TaggerClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[TaggerClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
