package genai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config is the immutable generation configuration snapshot, built once at
// process start. Components never read the environment themselves.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	HFAPIKey          string
	HFModel           string
	AllowFallback     bool
	PlaceholderOnFail bool

	// Mock short-circuits every capability with deterministic synthetic
	// output and no network access.
	Mock bool
}

// Service is the per-capability entry point. It validates prompts, handles
// mock mode, and composes the provider clients, the fallback orchestrator
// and the normalizers into canonical results.
type Service struct {
	cfg    Config
	gemini *GeminiClient
	hf     *HFClient
	tts    *TTSClient
	orch   *Orchestrator
	events Publisher
	logger *zap.Logger
}

// NewService builds a facade from a config snapshot. events may be nil.
func NewService(cfg Config, logger *zap.Logger, events Publisher) *Service {
	return &Service{
		cfg:    cfg,
		gemini: NewGeminiClient(cfg.GeminiAPIKey, logger),
		hf:     NewHFClient(cfg.HFAPIKey, logger),
		tts:    NewTTSClient(),
		orch:   NewOrchestrator(logger),
		events: events,
		logger: logger,
	}
}

// ChatModel reports the effective chat model
func (s *Service) ChatModel() string {
	if s.cfg.GeminiModel != "" {
		return s.cfg.GeminiModel
	}
	return DefaultChatModel
}

// ImageModel reports the effective image model
func (s *Service) ImageModel() string {
	if s.cfg.HFModel != "" {
		return s.cfg.HFModel
	}
	return DefaultImageModel
}

// Chat resolves a chat prompt to a single reply string
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	prompt := strings.TrimSpace(message)
	if prompt == "" {
		return "", NewInvalidRequest("invalid or missing 'message'")
	}
	if s.cfg.Mock {
		return "🤖 (mock) You said: " + prompt, nil
	}
	if s.cfg.GeminiAPIKey == "" {
		return "", NewConfigurationError("GEMINI_API_KEY not configured")
	}

	start := time.Now()
	req := &GenerationRequest{Capability: CapabilityChat, Prompt: prompt}
	payload, err := s.orch.Resolve(ctx, s.gemini, TextCandidates(s.cfg.GeminiModel, DefaultChatModel), req)
	if err != nil {
		s.publish(CapabilityChat, s.ChatModel(), "failed", start)
		return "", gatewayError(err)
	}

	reply, err := ExtractChatReply(payload.Body)
	if err != nil {
		s.publish(CapabilityChat, s.ChatModel(), "failed", start)
		return "", err
	}
	s.publish(CapabilityChat, s.ChatModel(), "success", start)
	return reply, nil
}

// Art resolves an image prompt to a data URI. With placeholder mode on,
// total upstream failure degrades to a synthesized SVG instead of an error.
func (s *Service) Art(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", NewInvalidRequest("invalid or missing 'prompt'")
	}
	if s.cfg.Mock {
		return MockArt(prompt), nil
	}
	if s.cfg.HFAPIKey == "" {
		return "", NewConfigurationError("HF_API_KEY not configured")
	}

	start := time.Now()
	req := &GenerationRequest{Capability: CapabilityImage, Prompt: prompt}
	payload, err := s.orch.Resolve(ctx, s.hf, ImageCandidates(s.cfg.HFModel, s.cfg.AllowFallback), req)
	if err != nil {
		var ex *ExhaustedError
		if errors.As(err, &ex) && s.cfg.PlaceholderOnFail {
			s.publish(CapabilityImage, s.ImageModel(), "degraded", start)
			return PlaceholderArt(prompt, ex.Failures), nil
		}
		s.publish(CapabilityImage, s.ImageModel(), "failed", start)
		return "", gatewayError(err)
	}

	s.publish(CapabilityImage, s.ImageModel(), "success", start)
	return DataURL(payload.ContentType, payload.Body), nil
}

// Audio runs the two-stage audio flow: optionally transform the prompt into
// narration-ready content, then synthesize speech from it. The narration
// stage degrades to the raw prompt on any upstream failure; a synthesis
// failure is terminal.
func (s *Service) Audio(ctx context.Context, prompt string, generateContent bool) (*AudioResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, NewInvalidRequest("invalid or missing 'text' or 'prompt'")
	}
	if s.cfg.Mock {
		return &AudioResult{
			AudioDataURL:  MockAudioDataURL(),
			NarrationText: prompt,
			Prompt:        prompt,
		}, nil
	}
	if s.tts == nil {
		return nil, NewConfigurationError("speech synthesis engine not available")
	}

	start := time.Now()
	narration := prompt
	if generateContent {
		narration = s.narrate(ctx, prompt)
	}

	audio, err := s.tts.Synthesize(ctx, narration)
	if err != nil {
		s.publish(CapabilityAudio, s.ChatModel(), "failed", start)
		return nil, NewUpstreamUnavailable("audio generation failed: " + err.Error())
	}

	s.publish(CapabilityAudio, s.ChatModel(), "success", start)
	return &AudioResult{
		AudioDataURL:  DataURL("audio/mpeg", audio),
		NarrationText: narration,
		Prompt:        prompt,
	}, nil
}

// narrate asks the text upstream to turn the prompt into narration content.
// Every failure path degrades to the verbatim prompt; narration is
// best-effort by design of the capability, not an excuse to fail audio.
func (s *Service) narrate(ctx context.Context, prompt string) string {
	if s.cfg.GeminiAPIKey == "" {
		return prompt
	}

	req := &GenerationRequest{Capability: CapabilityAudio, Prompt: narrationPrompt(ClassifyGenre(prompt), prompt)}
	payload, err := s.orch.Resolve(ctx, s.gemini, TextCandidates(s.cfg.GeminiModel, DefaultContentModel), req)
	if err != nil {
		s.logger.Warn("narration generation failed, using prompt verbatim", zap.Error(err))
		return prompt
	}

	reply, err := ExtractChatReply(payload.Body)
	if err != nil || reply == defaultChatReply {
		return prompt
	}
	return strings.TrimSpace(reply)
}

// MindMap resolves a topic to a mind map graph
func (s *Service) MindMap(ctx context.Context, topic string) (*MindMap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, NewInvalidRequest("invalid or missing 'topic' or 'prompt'")
	}
	if s.cfg.Mock {
		return MockMindMap(topic), nil
	}
	if s.cfg.GeminiAPIKey == "" {
		return nil, NewConfigurationError("GEMINI_API_KEY not configured")
	}

	start := time.Now()
	req := &GenerationRequest{Capability: CapabilityMindMap, Prompt: mindMapPrompt(topic)}
	payload, err := s.orch.Resolve(ctx, s.gemini, TextCandidates(s.cfg.GeminiModel, DefaultContentModel), req)
	if err != nil {
		s.publish(CapabilityMindMap, s.ChatModel(), "failed", start)
		return nil, gatewayError(err)
	}

	text, err := ExtractChatReply(payload.Body)
	if err != nil {
		s.publish(CapabilityMindMap, s.ChatModel(), "failed", start)
		return nil, err
	}

	mm, err := ExtractMindMap(text)
	if err != nil {
		// A reply that never contained a graph is an internal failure of
		// the capability, not a flaky upstream.
		var ge *Error
		if errors.As(err, &ge) {
			ge.HTTPStatus = http.StatusInternalServerError
		}
		s.publish(CapabilityMindMap, s.ChatModel(), "failed", start)
		return nil, err
	}

	s.publish(CapabilityMindMap, s.ChatModel(), "success", start)
	return mm, nil
}

func (s *Service) publish(cap Capability, model, outcome string, start time.Time) {
	if s.events == nil {
		return
	}
	s.events.PublishGeneration(GenerationEvent{
		Capability: cap,
		Model:      model,
		Outcome:    outcome,
		DurationMS: time.Since(start).Milliseconds(),
		At:         time.Now().UTC(),
	})
}

// gatewayError folds orchestrator errors into the facade taxonomy:
// exhaustion becomes an upstream-unavailable error carrying the per
// candidate diagnostic; typed errors pass through unchanged.
func gatewayError(err error) error {
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		return NewUpstreamUnavailable("all candidates failed. Reasons: " + ex.Detail())
	}
	return err
}
