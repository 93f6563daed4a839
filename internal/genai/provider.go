package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProviderClient is the contract every upstream wrapper satisfies: build the
// provider-specific request for one candidate and classify whatever comes
// back. Transport errors never escape as raw errors.
type ProviderClient interface {
	Invoke(ctx context.Context, cand Candidate, req *GenerationRequest) AttemptOutcome
}

// ProviderFunc adapts a function to the ProviderClient interface
type ProviderFunc func(ctx context.Context, cand Candidate, req *GenerationRequest) AttemptOutcome

func (f ProviderFunc) Invoke(ctx context.Context, cand Candidate, req *GenerationRequest) AttemptOutcome {
	return f(ctx, cand, req)
}

// upstreamErrorMessage digs a human-readable message out of a provider error
// body. Providers disagree on the envelope, so try the common shapes before
// falling back to a generic status message.
func upstreamErrorMessage(status int, body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		if nested.Error.Status != "" {
			return fmt.Sprintf("%s (status: %s)", nested.Error.Message, nested.Error.Status)
		}
		return nested.Error.Message
	}

	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}

	return fmt.Sprintf("HTTP %d", status)
}

// outcomeForStatus maps a non-2xx provider status to an attempt outcome.
// 401 is terminal: every other candidate uses the same credential, so
// continuing would only burn quota. Everything else is worth trying the
// next candidate for.
func outcomeForStatus(provider string, status int, body []byte) AttemptOutcome {
	switch status {
	case http.StatusUnauthorized:
		return TerminalOutcome(NewUpstreamAuthError(
			fmt.Sprintf("unauthorized: check the %s API key", provider)))
	case http.StatusForbidden:
		return RetryableOutcome("restricted: " + upstreamErrorMessage(status, body))
	case http.StatusNotFound:
		return RetryableOutcome("not found: " + upstreamErrorMessage(status, body))
	default:
		return RetryableOutcome(upstreamErrorMessage(status, body))
	}
}
