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
	defaultHFBaseURL = "https://api-inference.huggingface.co"
	hfTimeout        = 120 * time.Second
)

// HFClient wraps the Hugging Face Inference API for image generation. The
// two endpoint variants are the task-specific pipeline URL and the generic
// models URL; some models only answer on one of them.
type HFClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHFClient(apiKey string, logger *zap.Logger) *HFClient {
	return &HFClient{
		apiKey:  apiKey,
		baseURL: defaultHFBaseURL,
		client:  &http.Client{Timeout: hfTimeout},
		logger:  logger,
	}
}

func (h *HFClient) endpoint(cand Candidate) string {
	base := strings.TrimRight(h.baseURL, "/")
	if cand.Variant == VariantPipeline {
		return fmt.Sprintf("%s/pipeline/text-to-image/%s", base, cand.Model)
	}
	return fmt.Sprintf("%s/models/%s", base, cand.Model)
}

// Invoke posts the prompt to the candidate's endpoint and classifies the
// result. Success requires an image content type; a 2xx JSON body is an
// error envelope in disguise.
func (h *HFClient) Invoke(ctx context.Context, cand Candidate, req *GenerationRequest) AttemptOutcome {
	payload, _ := json.Marshal(map[string]string{"inputs": req.Prompt})
	endpoint := h.endpoint(cand)

	do := func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		// Accept any image; the mime comes back in the response
		httpReq.Header.Set("Accept", "image/*")
		return h.client.Do(httpReq)
	}

	resp, err := do()
	if err != nil {
		return RetryableOutcome(err.Error())
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		// Model warming up: one immediate retry of the same call
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

	ct := mediaType(resp.Header.Get("Content-Type"))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return TerminalOutcome(NewUpstreamAuthError("unauthorized: check the Hugging Face API key"))
	case resp.StatusCode == http.StatusForbidden:
		return RetryableOutcome(fmt.Sprintf("restricted: accept terms for %s", cand.Model))
	case resp.StatusCode == http.StatusNotFound:
		return RetryableOutcome(fmt.Sprintf("not found on Inference API: %s", cand.Model))
	case resp.StatusCode >= 200 && resp.StatusCode < 300 && strings.HasPrefix(ct, "image"):
		return SuccessOutcome(&Payload{Body: data, ContentType: ct})
	default:
		// Non-image success bodies and other failures carry a JSON error
		// envelope when they carry anything at all.
		h.logger.Warn("image generation attempt failed",
			zap.String("model", cand.Model),
			zap.String("variant", string(cand.Variant)),
			zap.Int("status", resp.StatusCode),
		)
		return RetryableOutcome(upstreamErrorMessage(resp.StatusCode, data))
	}
}
