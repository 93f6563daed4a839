package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGeminiClient("test-key", zap.NewNop())
	g.baseURL = srv.URL
	return g, srv
}

func geminiOK(text string) []byte {
	body, _ := json.Marshal(geminiResponse{
		Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}},
	})
	return body
}

func TestGeminiClient_Success(t *testing.T) {
	var gotPath, gotKey string
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(geminiOK("hi there"))
	})

	cand := Candidate{Provider: "gemini", Model: "gemini-2.5-pro", Variant: VariantV1Beta}
	out := g.Invoke(context.Background(), cand, &GenerationRequest{Capability: CapabilityChat, Prompt: "hi"})

	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", out.Payload.ContentType, "content type parameters are stripped")

	reply, err := ExtractChatReply(out.Payload.Body)
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestGeminiClient_VariantSelectsPath(t *testing.T) {
	var gotPath string
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(geminiOK("ok"))
	})

	cand := Candidate{Provider: "gemini", Model: "gemini-pro", Variant: VariantV1}
	g.Invoke(context.Background(), cand, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, "/v1/models/gemini-pro:generateContent", gotPath)
}

func TestGeminiClient_RetriesOnceOn503(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(geminiOK("warmed up"))
	})

	cand := Candidate{Provider: "gemini", Model: "gemini-2.5-pro", Variant: VariantV1Beta}
	out := g.Invoke(context.Background(), cand, &GenerationRequest{Prompt: "x"})

	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGeminiClient_503TwiceIsRetryable(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"model is overloaded"}}`))
	})

	out := g.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantV1Beta}, &GenerationRequest{Prompt: "x"})

	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.Equal(t, int32(2), calls.Load(), "exactly one retry per call, not a loop")
	assert.Contains(t, out.Reason, "model is overloaded")
}

func TestGeminiClient_UnauthorizedIsTerminal(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
	})

	out := g.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantV1Beta}, &GenerationRequest{Prompt: "x"})

	require.Equal(t, OutcomeTerminal, out.Kind)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrUpstreamAuth, out.Err.Code)
	assert.NotContains(t, out.Err.Message, "API key not valid", "upstream detail stays out of the caller-facing message")
}

func TestGeminiClient_NotFoundIsRetryable(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"model not found","status":"NOT_FOUND"}}`))
	})

	out := g.Invoke(context.Background(), Candidate{Model: "gone", Variant: VariantV1}, &GenerationRequest{Prompt: "x"})

	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.Contains(t, out.Reason, "model not found")
	assert.Contains(t, out.Reason, "NOT_FOUND")
}

func TestGeminiClient_NetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	g := NewGeminiClient("k", zap.NewNop())
	g.baseURL = srv.URL
	srv.Close() // connection refused from here on

	out := g.Invoke(context.Background(), Candidate{Model: "m", Variant: VariantV1Beta}, &GenerationRequest{Prompt: "x"})
	assert.Equal(t, OutcomeRetryable, out.Kind)
	assert.NotEmpty(t, out.Reason)
}
