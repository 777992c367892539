package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edurate/edurate-api/internal/service"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
	"github.com/edurate/edurate-api/pkg/response"
)

// TeacherHandler wires the public roster reads to HTTP routes.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// Search handles GET /teachers?q= and returns a bare JSON array.
func (h *TeacherHandler) Search(c *gin.Context) {
	teachers, err := h.teachers.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}

// Get handles GET /teacher?id= and returns the teacher plus aggregates.
func (h *TeacherHandler) Get(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing id"))
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	profile, err := h.teachers.Profile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Top handles GET/POST /top?limit= and returns the approved-only ranking.
func (h *TeacherHandler) Top(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	top, err := h.teachers.Top(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, top)
}
