package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHF(t *testing.T, handler http.HandlerFunc) *HFClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	h := NewHFClient("hf-test-key", zap.NewNop())
	h.baseURL = srv.URL
	return h
}

var fakePNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestHFClient_SuccessOnPipeline(t *testing.T) {
	var gotPath, gotAuth string
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "image/png")
		w.Write(fakePNG)
	})

	cand := Candidate{Provider: "huggingface", Model: "stabilityai/sdxl-turbo", Variant: VariantPipeline}
	out := h.Invoke(context.Background(), cand, &GenerationRequest{Capability: CapabilityImage, Prompt: "a cat"})

	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "/pipeline/text-to-image/stabilityai/sdxl-turbo", gotPath)
	assert.Equal(t, "Bearer hf-test-key", gotAuth)
	assert.Equal(t, "image/png", out.Payload.ContentType)
	assert.Equal(t, fakePNG, out.Payload.Body)
}

func TestHFClient_ModelsVariantPath(t *testing.T) {
	var gotPath string
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(fakePNG)
	})

	cand := Candidate{Provider: "huggingface", Model: "runwayml/stable-diffusion-v1-5", Variant: VariantModels}
	h.Invoke(context.Background(), cand, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, "/models/runwayml/stable-diffusion-v1-5", gotPath)
}

func TestHFClient_RetriesOnceOn503(t *testing.T) {
	var calls atomic.Int32
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(fakePNG)
	})

	out := h.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantModels}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHFClient_UnauthorizedIsTerminal(t *testing.T) {
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	out := h.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantPipeline}, &GenerationRequest{Prompt: "x"})
	require.Equal(t, OutcomeTerminal, out.Kind)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrUpstreamAuth, out.Err.Code)
}

func TestHFClient_ForbiddenNamesTheModel(t *testing.T) {
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	out := h.Invoke(context.Background(), Candidate{Model: "gated/model", Variant: VariantModels}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.Contains(t, out.Reason, "gated/model")
	assert.Contains(t, out.Reason, "restricted")
}

func TestHFClient_NotFoundIsRetryable(t *testing.T) {
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	out := h.Invoke(context.Background(), Candidate{Model: "no/such-model", Variant: VariantPipeline}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.Contains(t, out.Reason, "no/such-model")
}

func TestHFClient_JSONBodyWith200IsNotSuccess(t *testing.T) {
	h := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"unexpected pipeline output"}`))
	})

	out := h.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantModels}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.Contains(t, out.Reason, "unexpected pipeline output")
}

func TestHFClient_NetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h := NewHFClient("k", zap.NewNop())
	h.baseURL = srv.URL
	srv.Close()

	out := h.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantPipeline}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeRetryable, out.Kind)
}
