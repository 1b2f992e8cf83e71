package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sharkin/internal/generator"
	"sharkin/internal/logger"
	"sharkin/internal/store"
)

type Handler struct {
	gen   *generator.Service
	store *store.Store
	log   *logger.Logger
}

func NewHandler(gen *generator.Service, st *store.Store, log *logger.Logger) *Handler {
	return &Handler{gen: gen, store: st, log: log.With("component", "api")}
}

// RegisterRoutes mounts every route under /api. auth may be nil.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api")
	if auth != nil {
		api.Use(auth)
	}
	{
		api.POST("/generate/hooks", h.GenerateHooks)
		api.POST("/generate/posts", h.GeneratePosts)
		api.POST("/generate/ghostwriter", h.GeneratePosts)
		api.POST("/generate/comments", h.GenerateComments)

		api.GET("/inspiration", h.ListInspiration)
		api.GET("/users/:id/usage", h.GetUsage)
		api.GET("/users/:id/favorites", h.ListFavorites)
		api.POST("/users/:id/favorites/:postId", h.ToggleFavorite)
	}
}

// GenerateHooks returns hooks with outlines and, unless disabled, scoring.
func (h *Handler) GenerateHooks(c *gin.Context) {
	var req generator.HookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err, "userId and bulletPoints are required")})
		return
	}
	if !h.allowUser(c, req.UserID) {
		return
	}

	resp, err := h.gen.GenerateHooks(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GeneratePosts writes full posts, optionally from a chosen hook and outline.
func (h *Handler) GeneratePosts(c *gin.Context) {
	var req generator.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err, "userId and idea are required")})
		return
	}
	if !h.allowUser(c, req.UserID) {
		return
	}

	resp, err := h.gen.GeneratePosts(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GenerateComments(c *gin.Context) {
	var req generator.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err, "userId and postText are required")})
		return
	}
	if !h.allowUser(c, req.UserID) {
		return
	}

	resp, err := h.gen.GenerateComments(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
