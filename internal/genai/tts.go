package genai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTTSBaseURL = "https://translate.google.com/translate_tts"
	ttsTimeout        = 120 * time.Second

	// The engine rejects queries longer than this, so narration text is
	// split on whitespace and the MP3 segments concatenated.
	ttsChunkLimit = 200
)

// TTSClient synthesizes speech from narration text using the Google
// Translate text-to-speech endpoint. Unlike the generation providers there
// is no fallback chain here: a synthesis failure is terminal for the
// request.
type TTSClient struct {
	baseURL string
	lang    string
	client  *http.Client
}

func NewTTSClient() *TTSClient {
	return &TTSClient{
		baseURL: defaultTTSBaseURL,
		lang:    "en",
		client:  &http.Client{Timeout: ttsTimeout},
	}
}

// Synthesize converts text to MP3 audio bytes
func (t *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := splitChunks(text, ttsChunkLimit)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to synthesize")
	}

	var audio []byte
	for i, chunk := range chunks {
		q := url.Values{
			"ie":      {"UTF-8"},
			"client":  {"tw-ob"},
			"tl":      {t.lang},
			"q":       {chunk},
			"total":   {strconv.Itoa(len(chunks))},
			"idx":     {strconv.Itoa(i)},
			"textlen": {strconv.Itoa(len(chunk))},
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("speech synthesis request failed: %w", err)
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("speech synthesis failed: HTTP %d", resp.StatusCode)
		}
		if readErr != nil {
			return nil, readErr
		}
		audio = append(audio, data...)
	}

	return audio, nil
}

// splitChunks breaks text into pieces no longer than limit, preferring
// whitespace boundaries. A single word longer than the limit is split hard.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		for len(word) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, word[:limit])
			word = word[limit:]
		}
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
