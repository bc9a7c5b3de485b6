package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/questmap/internal/catalog"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/roadmap"
)

// DefaultUserID is used when a request names no user.
const DefaultUserID = "default_user"

type handlers struct {
	progress *progress.Service
	catalog  *catalog.Service
	health   func(context.Context) error
	log      *logger.Logger
}

type completeRequest struct {
	RoadmapItemID  int    `json:"roadmap_item_id" binding:"required"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	UserID         string `json:"user_id"`
}

type visibilityRequest struct {
	Visible *bool  `json:"visible" binding:"required"`
	UserID  string `json:"user_id"`
}

type unlockedResponse struct {
	UnlockedIDs []int `json:"unlocked_ids"`
}

func userID(c *gin.Context) string {
	if id := c.Query("user_id"); id != "" {
		return id
	}
	return DefaultUserID
}

func orDefaultUser(id string) string {
	if id == "" {
		return DefaultUserID
	}
	return id
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", errors.New("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *handlers) healthcheck(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.log.Warn("health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

func (h *handlers) complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.progress.RecordCompletion(c.Request.Context(), orDefaultUser(req.UserID),
		req.RoadmapItemID, req.Score, req.TotalQuestions)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, res)
}

func (h *handlers) unlocked(c *gin.Context) {
	done, err := h.progress.CompletedItems(c.Request.Context(), userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, unlockedResponse{UnlockedIDs: done.IDs()})
}

func (h *handlers) roadmapProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	done, err := h.progress.CompletedItems(ctx, userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	p, err := h.catalog.Progress(ctx, id, done)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, p)
}

func (h *handlers) discoveryState(c *gin.Context) {
	snap, err := h.progress.DiscoveryState(c.Request.Context(), userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *handlers) markDiscoveryShown(c *gin.Context) {
	snap, err := h.progress.AcknowledgeDiscovery(c.Request.Context(), userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *handlers) discoveryVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := h.progress.SetGuideVisible(c.Request.Context(), orDefaultUser(req.UserID), *req.Visible)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *handlers) listRoadmaps(c *gin.Context) {
	rms, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	if rms == nil {
		rms = []roadmap.Roadmap{}
	}
	respondOK(c, rms)
}

func (h *handlers) importRoadmap(c *gin.Context) {
	var rm roadmap.Roadmap
	if err := c.ShouldBindJSON(&rm); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := roadmap.Validate(&rm); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_roadmap", err)
		return
	}
	res, err := h.catalog.Import(c.Request.Context(), &rm)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handlers) roadmapMap(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	done, err := h.progress.CompletedItems(ctx, userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	st, err := h.catalog.Map(ctx, id, done)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, st)
}

func (h *handlers) deleteRoadmap(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.respondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) discover(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))
	res, err := h.progress.Discover(c.Request.Context(), userID(c), force)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, res)
}

func (h *handlers) knowledgeGraph(c *gin.Context) {
	ctx := c.Request.Context()
	done, err := h.progress.CompletedItems(ctx, userID(c))
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	p, err := h.catalog.Projected(ctx, done)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	respondOK(c, p)
}
