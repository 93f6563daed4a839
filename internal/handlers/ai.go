package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindspace/api/internal/config"
	"github.com/mindspace/api/internal/genai"
	"github.com/mindspace/api/internal/memory"
	"github.com/mindspace/api/internal/middleware"
)

// AIHandler handles the chat and art generation endpoints
type AIHandler struct {
	svc    *genai.Service
	mem    *memory.Store
	cfg    *config.Config
	logger *zap.Logger
}

// NewAIHandler creates a new AI handler. mem may be nil when Redis is down;
// chat then simply runs without memory.
func NewAIHandler(svc *genai.Service, mem *memory.Store, cfg *config.Config, logger *zap.Logger) *AIHandler {
	return &AIHandler{svc: svc, mem: mem, cfg: cfg, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	if h.mem != nil && req.UserID != "" {
		if err := h.mem.Append(c.Request.Context(), req.UserID,
			memory.Message{Role: "user", Text: req.Message},
			memory.Message{Role: "assistant", Text: reply},
		); err != nil {
			h.logger.Warn("could not persist chat memory",
				zap.String("user_id", req.UserID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type artRequest struct {
	Prompt string `json:"prompt"`
}

// Art handles POST /api/ai/art
func (h *AIHandler) Art(c *gin.Context) {
	var req artRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	dataURL, err := h.svc.Art(c.Request.Context(), req.Prompt)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"art": dataURL})
}

// Health handles GET /api/ai/health. It reports credential presence and
// configured models, never credential values.
func (h *AIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mock": h.cfg.MockAI,
		"gemini": gin.H{
			"apiKeyPresent": h.cfg.GeminiAPIKey != "",
			"model":         h.svc.ChatModel(),
		},
		"huggingface": gin.H{
			"apiKeyPresent": h.cfg.HFAPIKey != "",
			"model":         h.svc.ImageModel(),
			"allowFallback": h.cfg.HFAllowFallback,
		},
	})
}

// Memory handles GET /api/ai/memory/:userId
func (h *AIHandler) Memory(c *gin.Context) {
	userID := c.Param("userId")

	msgs := []memory.Message{}
	if h.mem != nil {
		recent, err := h.mem.Recent(c.Request.Context(), userID, 0)
		if err != nil {
			h.logger.Warn("could not read chat memory",
				zap.String("user_id", userID), zap.Error(err))
		} else {
			msgs = recent
		}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// respondGenerationError maps a generation facade error onto the structured
// error envelope. Unknown errors become a bare 500 with no internal detail.
func respondGenerationError(c *gin.Context, err error) {
	var ge *genai.Error
	if errors.As(err, &ge) {
		switch ge.Code {
		case genai.ErrInvalidRequest:
			middleware.RespondError(c, ge.HTTPStatus, middleware.ErrCodeBadRequest, ge.Message)
		case genai.ErrConfiguration:
			middleware.RespondError(c, ge.HTTPStatus, middleware.ErrCodeInternalError, ge.Message)
		case genai.ErrMalformedResponse:
			middleware.RespondError(c, ge.HTTPStatus, middleware.ErrCodeMalformedUpstream, ge.Message)
		default:
			middleware.RespondError(c, ge.HTTPStatus, middleware.ErrCodeUpstreamFailed, ge.Message)
		}
		return
	}
	middleware.InternalError(c, "generation failed")
}
