package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks(t *testing.T) {
	t.Run("ShortTextSingleChunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello world"}, splitChunks("hello world", 200))
	})

	t.Run("EmptyText", func(t *testing.T) {
		assert.Nil(t, splitChunks("   ", 200))
	})

	t.Run("PrefersWhitespaceBoundaries", func(t *testing.T) {
		chunks := splitChunks("alpha beta gamma delta", 11)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 11)
			assert.False(t, strings.HasPrefix(c, " "))
			assert.False(t, strings.HasSuffix(c, " "))
		}
		assert.Equal(t, "alpha beta gamma delta", strings.Join(chunks, " "), "no words lost or reordered")
	})

	t.Run("HardSplitsOversizedWord", func(t *testing.T) {
		chunks := splitChunks(strings.Repeat("x", 25), 10)
		require.Len(t, chunks, 3)
		assert.Equal(t, 10, len(chunks[0]))
		assert.Equal(t, 10, len(chunks[1]))
		assert.Equal(t, 5, len(chunks[2]))
	})
}

func TestTTSClient_ConcatenatesChunks(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("SEG|"))
	}))
	defer srv.Close()

	tts := NewTTSClient()
	tts.baseURL = srv.URL

	long := strings.Repeat("every word counts here ", 20) // well past one chunk
	audio, err := tts.Synthesize(context.Background(), long)
	require.NoError(t, err)

	require.Greater(t, len(queries), 1, "long text must be split into multiple requests")
	assert.Equal(t, strings.Repeat("SEG|", len(queries)), string(audio))
	for _, q := range queries {
		assert.LessOrEqual(t, len(q), ttsChunkLimit)
	}
}

func TestTTSClient_SendsExpectedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "tw-ob", q.Get("client"))
		assert.Equal(t, "en", q.Get("tl"))
		assert.Equal(t, "UTF-8", q.Get("ie"))
		assert.Equal(t, "hello", q.Get("q"))
		w.Write([]byte("MP3"))
	}))
	defer srv.Close()

	tts := NewTTSClient()
	tts.baseURL = srv.URL

	audio, err := tts.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "MP3", string(audio))
}

func TestTTSClient_NonOKStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tts := NewTTSClient()
	tts.baseURL = srv.URL

	_, err := tts.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}
