package web

import (
	"net/http"

	"datachat/apiclient"
	"datachat/config"
	"datachat/engine"
	"datachat/transcript"
	"datachat/web/format"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler adapts the engine to HTTP. It holds no conversation state of its
// own; every response is derived from the engine's current snapshot.
type Handler struct {
	engine   *engine.Engine
	client   *apiclient.Client
	renderer *format.Renderer
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(eng *engine.Engine, client *apiclient.Client, renderer *format.Renderer, logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		engine:   eng,
		client:   client,
		renderer: renderer,
		logger:   logger,
		config:   cfg,
	}
}

type chatRequest struct {
	Message string `json:"message" form:"message"`
}

type stateResponse struct {
	Active    bool                   `json:"active"`
	SessionID string                 `json:"session_id,omitempty"`
	Dataset   *apiclient.DatasetInfo `json:"dataset,omitempty"`
	Uploading bool                   `json:"uploading"`
	Sending   bool                   `json:"sending"`
	Error     string                 `json:"error,omitempty"`
}

type transcriptEntry struct {
	transcript.Entry
	ContentHTML string `json:"content_html,omitempty"`
}

func (h *Handler) snapshot() stateResponse {
	uploading, sending := h.engine.Pending()
	return stateResponse{
		Active:    h.engine.IsActive(),
		SessionID: h.engine.SessionID(),
		Dataset:   h.engine.Dataset(),
		Uploading: uploading,
		Sending:   sending,
		Error:     h.engine.LastError(),
	}
}

// UploadCSV accepts a multipart CSV upload from the browser and feeds it
// to the upload coordinator.
func (h *Handler) UploadCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "No file in request")
		return
	}
	if file.Size > h.config.MaxUploadMB*1024*1024 {
		respondWithClientError(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not read uploaded file", h.logger,
			zap.String("filename", file.Filename))
		return
	}
	defer src.Close()

	if h.engine.SubmitFile(c.Request.Context(), file.Filename, src) == engine.Rejected {
		respondWithClientError(c, http.StatusConflict, "Upload not accepted: CSV files only, one upload at a time")
		return
	}
	c.JSON(http.StatusOK, h.snapshot())
}

// Chat feeds one question to the chat coordinator.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	if h.engine.SubmitQuestion(c.Request.Context(), req.Message) == engine.Rejected {
		respondWithClientError(c, http.StatusConflict, "Question not accepted: needs a loaded dataset, a non-empty question and no request in flight")
		return
	}
	c.JSON(http.StatusOK, h.snapshot())
}

// Restart destroys the session and returns the cleared state.
func (h *Handler) Restart(c *gin.Context) {
	h.engine.Reset()
	c.JSON(http.StatusOK, h.snapshot())
}

// State returns the current session snapshot.
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// Transcript returns the conversation with assistant content rendered to
// HTML.
func (h *Handler) Transcript(c *gin.Context) {
	entries := h.engine.Transcript()
	out := make([]transcriptEntry, 0, len(entries))
	for _, entry := range entries {
		te := transcriptEntry{Entry: entry}
		if !entry.IsUser {
			te.ContentHTML = h.renderer.HTML(entry.ID, entry.Content)
		}
		out = append(out, te)
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

// Suggestions returns candidate questions for the loaded dataset.
func (h *Handler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": h.engine.Suggestions()})
}

// SampleFiles proxies the analysis service's demo dataset listing.
func (h *Handler) SampleFiles(c *gin.Context) {
	files, err := h.client.SampleFiles(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusBadGateway, err, "Could not list sample files", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// LoadSample asks the engine to activate a session from a server-hosted
// demo dataset.
func (h *Handler) LoadSample(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		respondWithClientError(c, http.StatusBadRequest, "Missing filename")
		return
	}

	if h.engine.LoadSample(c.Request.Context(), filename) == engine.Rejected {
		respondWithClientError(c, http.StatusConflict, "Load not accepted: one upload at a time")
		return
	}
	c.JSON(http.StatusOK, h.snapshot())
}

// respondWithError logs the technical error and returns a user-friendly message
func respondWithError(c *gin.Context, statusCode int, technicalError error, userMessage string, logger *zap.Logger, fields ...zap.Field) {
	// Log technical error with context
	if logger != nil {
		fields = append(fields, zap.Error(technicalError))
		logger.Error("Request failed", fields...)
	}

	// Return user-friendly message
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithClientError returns a client error (no logging needed for validation errors)
func respondWithClientError(c *gin.Context, statusCode int, userMessage string) {
	c.JSON(statusCode, gin.H{"error": userMessage})
}
