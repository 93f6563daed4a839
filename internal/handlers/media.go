package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindspace/api/internal/config"
	"github.com/mindspace/api/internal/genai"
	"github.com/mindspace/api/internal/middleware"
)

// MediaHandler handles the audio and mind map endpoints
type MediaHandler struct {
	svc    *genai.Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(svc *genai.Service, cfg *config.Config, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, cfg: cfg, logger: logger}
}

type audioRequest struct {
	Text            string `json:"text"`
	Prompt          string `json:"prompt"`
	GenerateContent *bool  `json:"generate_content"`
}

// Audio handles POST /api/media/audio. The prompt comes from either field;
// content generation defaults to on.
func (h *MediaHandler) Audio(c *gin.Context) {
	var req audioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	prompt := req.Text
	if prompt == "" {
		prompt = req.Prompt
	}
	generateContent := true
	if req.GenerateContent != nil {
		generateContent = *req.GenerateContent
	}

	result, err := h.svc.Audio(c.Request.Context(), prompt, generateContent)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audio":  result.AudioDataURL,
		"text":   result.NarrationText,
		"prompt": result.Prompt,
	})
}

type mindMapRequest struct {
	Topic  string `json:"topic"`
	Prompt string `json:"prompt"`
}

// MindMap handles POST /api/media/mindmap
func (h *MediaHandler) MindMap(c *gin.Context) {
	var req mindMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	topic := req.Topic
	if topic == "" {
		topic = req.Prompt
	}

	mm, err := h.svc.MindMap(c.Request.Context(), topic)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mindmap": mm,
		"topic":   topic,
	})
}

// Health handles GET /api/media/health
func (h *MediaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"audio": gin.H{
			"available":        true,
			"geminiKeyPresent": h.cfg.GeminiAPIKey != "",
		},
	})
}
