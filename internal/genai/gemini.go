package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiTimeout        = 60 * time.Second
)

// GeminiClient wraps the Google generative language API for the chat,
// narration and mind map capabilities. Endpoint variants select the API
// version, which is how the same model can exist under one path and not
// the other.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGeminiClient(apiKey string, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: geminiTimeout},
		logger:  logger,
	}
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// Invoke sends a generateContent request for the candidate's model on the
// candidate's API version and classifies the result.
func (g *GeminiClient) Invoke(ctx context.Context, cand Candidate, req *GenerationRequest) AttemptOutcome {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	payload, _ := json.Marshal(body)
	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent",
		strings.TrimRight(g.baseURL, "/"), cand.Variant, cand.Model)

	do := func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("x-goog-api-key", g.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		return g.client.Do(httpReq)
	}

	resp, err := do()
	if err != nil {
		return RetryableOutcome(err.Error())
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		// Model warming up: one immediate retry of the same call, then
		// fall through to normal classification.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		resp, err = do()
		if err != nil {
			return RetryableOutcome(err.Error())
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return RetryableOutcome(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("gemini call failed",
			zap.String("model", cand.Model),
			zap.String("variant", string(cand.Variant)),
			zap.Int("status", resp.StatusCode),
		)
		return outcomeForStatus("Gemini", resp.StatusCode, data)
	}

	return SuccessOutcome(&Payload{Body: data, ContentType: mediaType(resp.Header.Get("Content-Type"))})
}

// mediaType strips parameters from a Content-Type header value
func mediaType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
