package session

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	patientService "github.com/trialdash/patient-api/internal/service/patient"
	sessionService "github.com/trialdash/patient-api/internal/service/session"
	"github.com/trialdash/patient-api/pkg/httputil"
)

type Handler struct {
	sessions *sessionService.Service
	patients *patientService.Service
}

func NewHandler(sessions *sessionService.Service, patients *patientService.Service) *Handler {
	return &Handler{sessions: sessions, patients: patients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id/sessions", h.ListSessions)
}

// ListSessions serves the session browser: one fixed-size page of the
// patient's recording files, joined with processing output.
func (h *Handler) ListSessions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	patient, err := h.patients.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
	}

	dir := sessionService.SortDescending
	if c.Query("dir") == string(sessionService.SortAscending) {
		dir = sessionService.SortAscending
	}

	result, err := h.sessions.ListPatientSessions(c.Request.Context(), patient.PatientCode, page, dir)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, result.Rows, result.Page, result.PageSize, result.Total)
}
