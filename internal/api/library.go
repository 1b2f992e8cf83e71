package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sharkin/internal/store"
)

// ListInspiration returns the hook library, best scored first.
func (h *Handler) ListInspiration(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(store.DefaultInspirationLimit)))

	posts, err := h.store.ListInspiration(c.Request.Context(), store.InspirationFilter{
		Category: c.Query("category"),
		HookType: c.Query("hookType"),
		Query:    c.Query("q"),
		Limit:    limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

func (h *Handler) GetUsage(c *gin.Context) {
	userID := c.Param("id")
	if !h.allowUser(c, userID) {
		return
	}
	u, err := h.store.FindUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"monthlyCreditsUsed":  u.MonthlyCreditsUsed,
		"monthlyCreditsLimit": u.MonthlyCreditsLimit,
		"remaining":           u.RemainingCredits(),
		"subscriptionStatus":  u.SubscriptionStatus,
	})
}

func (h *Handler) ListFavorites(c *gin.Context) {
	userID := c.Param("id")
	if !h.allowUser(c, userID) {
		return
	}
	if _, err := h.store.FindUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	ids, err := h.store.FavoriteIDs(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": ids})
}

// ToggleFavorite adds or removes an inspiration post from the user's favorites.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	userID := c.Param("id")
	if !h.allowUser(c, userID) {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.FindUser(ctx, userID); err != nil {
		h.respondError(c, err)
		return
	}

	favorited, err := h.store.ToggleFavorite(ctx, userID, c.Param("postId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspiration post not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
