package api

import (
	"errors"
	"net/http"

	"campaign_ai_server/internal/ai"
	"campaign_ai_server/internal/session"
	"campaign_ai_server/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator session.Generator
	sessions  session.Store
	log       *zap.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(generator session.Generator, sessions session.Store, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{
		generator: generator,
		sessions:  sessions,
		log:       log.Named("api"),
	}
}

// --- Structs for API Requests/Responses ---

type GenerateCampaignRequest struct {
	ProductDescription string               `json:"productDescription" binding:"required"`
	BrandVoice         string               `json:"brandVoice" binding:"required"`
	AuthorName         string               `json:"authorName" binding:"required"`
	Platforms          *types.PlatformPatch `json:"platforms"` // omitted flags fall back to the defaults
}

type UpdateSessionRequest struct {
	session.InputPatch
	Platforms types.PlatformPatch `json:"platforms"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// --- API Handlers ---

// POST /campaign/generate
func (h *APIHandler) GenerateCampaign(c *gin.Context) {
	var req GenerateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	input := types.CampaignInput{
		ProductDescription: req.ProductDescription,
		BrandVoice:         req.BrandVoice,
		AuthorName:         req.AuthorName,
	}
	if !input.Complete() {
		h.fail(c, http.StatusBadRequest, session.ErrIncompleteInput.Error())
		return
	}
	platforms := types.DefaultPlatforms()
	if req.Platforms != nil {
		platforms = req.Platforms.Apply(platforms)
	}

	result, err := h.generator.GenerateCampaign(c.Request.Context(), input, platforms)
	if err != nil {
		h.log.Warn("campaign generation failed",
			zap.String("request_id", RequestID(c)),
			zap.String("kind", ai.KindOf(err).String()),
			zap.Error(err),
		)
		h.fail(c, statusFor(err), session.UserMessage(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// POST /sessions
func (h *APIHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	h.log.Info("session created", zap.String("session_id", s.ID()), zap.String("request_id", RequestID(c)))
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GET /sessions/:id
func (h *APIHandler) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// PATCH /sessions/:id
func (h *APIHandler) UpdateSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, s.Update(req.InputPatch, req.Platforms))
}

// POST /sessions/:id/generate
func (h *APIHandler) GenerateForSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	snap, err := s.Submit(c.Request.Context(), h.generator)
	switch {
	case err == nil:
		h.log.Info("session campaign generated", zap.String("session_id", s.ID()), zap.Int("tweets", len(snap.Result.Tweets)))
		c.JSON(http.StatusOK, snap)
	case errors.Is(err, session.ErrInFlight), errors.Is(err, session.ErrIncompleteInput), errors.Is(err, session.ErrStale):
		h.fail(c, statusFor(err), err.Error())
	default:
		h.log.Warn("session campaign generation failed",
			zap.String("session_id", s.ID()),
			zap.String("request_id", RequestID(c)),
			zap.String("kind", ai.KindOf(err).String()),
			zap.Error(err),
		)
		c.JSON(statusFor(err), snap)
	}
}

// DELETE /sessions/:id/result
func (h *APIHandler) ResetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Reset())
}

// DELETE /sessions/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		h.fail(c, statusFor(err), err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) lookup(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, statusFor(err), err.Error())
		return nil, false
	}
	return s, true
}

func (h *APIHandler) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg, RequestID: RequestID(c)})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrIncompleteInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInFlight), errors.Is(err, session.ErrStale):
		return http.StatusConflict
	}
	switch ai.KindOf(err) {
	case ai.KindConfiguration:
		return http.StatusServiceUnavailable
	case ai.KindTransport, ai.KindParse:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
