package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edurate/edurate-api/internal/dto"
	"github.com/edurate/edurate-api/internal/models"
	"github.com/edurate/edurate-api/internal/service"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
	"github.com/edurate/edurate-api/pkg/export"
	"github.com/edurate/edurate-api/pkg/response"
)

// AdminHandler wires the token-gated moderation console endpoints. The token
// travels in each request body; authorization and limit decisions live in the
// moderation service.
type AdminHandler struct {
	moderation *service.ModerationService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(moderation *service.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// Pending handles POST /admin/pending.
func (h *AdminHandler) Pending(c *gin.Context) {
	var req dto.PendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pending payload"))
		return
	}

	rows, err := h.moderation.ListPending(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"rows": rows})
}

// Approve handles POST /admin/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.transition(c, models.ReviewApproved)
}

// Reject handles POST /admin/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.transition(c, models.ReviewRejected)
}

func (h *AdminHandler) transition(c *gin.Context, target models.ReviewStatus) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid moderation payload"))
		return
	}

	updated, err := h.moderation.Transition(c.Request.Context(), req, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	// updated == 0 means an unknown id or an already-moderated review; both
	// are successful no-ops and reported identically.
	response.OK(c, http.StatusOK, gin.H{"updated": updated})
}

// Scrape handles POST /admin/scrape: a synchronous scrape-and-reconcile run.
func (h *AdminHandler) Scrape(c *gin.Context) {
	var req dto.AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scrape payload"))
		return
	}

	summary, err := h.moderation.TriggerScrape(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"found":         summary.Found,
		"upserted":      summary.Upserted,
		"created":       summary.Created,
		"rejected":      summary.Rejected,
		"pages_visited": summary.PagesVisited,
		"school":        summary.School,
		"source_url":    summary.SourceURL,
	})
}

// Export handles POST /admin/export and streams reviews as CSV.
func (h *AdminHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}

	reviews, err := h.moderation.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := export.ReviewsCSV(reviews)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="reviews.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
