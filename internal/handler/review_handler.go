package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edurate/edurate-api/internal/dto"
	"github.com/edurate/edurate-api/internal/service"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
	"github.com/edurate/edurate-api/pkg/response"
)

// ReviewHandler wires review submission and the public review list.
type ReviewHandler struct {
	reviews   *service.ReviewService
	listLimit int
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, listLimit int) *ReviewHandler {
	if listLimit <= 0 {
		listLimit = 50
	}
	return &ReviewHandler{reviews: reviews, listLimit: listLimit}
}

// List handles GET /reviews?teacher_id= and returns approved reviews only.
func (h *ReviewHandler) List(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("teacher_id"))
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing teacher_id"))
		return
	}
	teacherID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher_id"))
		return
	}

	reviews, err := h.reviews.ListApproved(c.Request.Context(), teacherID, h.listLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews)
}

// Submit handles POST /reviews. The body is parsed leniently and validated
// strictly; a stored review always starts out pending.
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload"))
		return
	}

	review, err := h.reviews.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": review.ID, "status": string(review.Status)})
}
