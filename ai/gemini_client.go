package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"healthmini/internal/config"
	"healthmini/internal/errors"
	"healthmini/ports"
)

// GeminiClient is the completion gateway: it wraps the external
// text-generation endpoint behind ports.CompletionClient. Each call is
// independent; retry and backoff policy belong to callers, not here.
type GeminiClient struct {
	apiKey     string
	apiURL     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGeminiClient creates a gateway bound to the configured endpoint. The
// timeout bounds the whole call; expiry surfaces as a GATEWAY_ERROR.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// geminiRequest is the fixed JSON envelope the provider expects. Free text is
// escaped for the transport's string-literal syntax by the JSON encoder.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete issues one blocking call to the provider and returns the answer
// text. Non-success provider responses classify as PROVIDER_ERROR carrying
// the raw body; transport faults and malformed response shapes classify as
// GATEWAY_ERROR.
func (c *GeminiClient) Complete(ctx context.Context, promptContext string, mode ports.CompletionMode) (string, error) {
	prompt, err := BuildPrompt(promptContext, mode)
	if err != nil {
		return "", errors.GatewayError("building prompt", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.GatewayError("encoding request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", errors.GatewayError("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.GatewayError("completion call timed out", err)
		}
		return "", errors.GatewayError("completion call failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.GatewayError("reading response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.ProviderError(string(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.GatewayError("parsing provider response", err)
	}
	// candidates[0].content.parts[0].text; any missing level is a malformed
	// response, not a crash.
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.GatewayError("malformed provider response: no answer text", nil)
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
