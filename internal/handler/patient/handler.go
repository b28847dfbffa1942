package patient

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trialdash/patient-api/internal/model"
	patientService "github.com/trialdash/patient-api/internal/service/patient"
	"github.com/trialdash/patient-api/pkg/httputil"
)

type Handler struct {
	service *patientService.Service
}

func NewHandler(service *patientService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetProfile)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeactivatePatient)
		patients.PUT("/:id/medical", h.UpdateMedicalInfo)
		patients.GET("/:id/adherence", h.GetAdherence)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, patient)
}

// ListPatients serves the dashboard table: filtered, sorted rows with
// adherence and trend attached.
func (h *Handler) ListPatients(c *gin.Context) {
	req := &patientService.ListRequest{
		Filters: patientService.Filters{
			SearchTerm:   c.Query("search"),
			ShowInactive: c.Query("show_inactive") == "true",
		},
		SortField:     patientService.SortField(c.DefaultQuery("sort", string(patientService.SortByCode))),
		SortDirection: normalizeDirection(c.DefaultQuery("dir", string(patientService.SortAscending))),
	}

	if therapist := c.Query("therapist_id"); therapist != "" {
		id, err := uuid.Parse(therapist)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid therapist ID"})
			return
		}
		req.TherapistID = &id
	}

	rows, err := h.service.ListDashboard(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rows)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := h.service.UpdatePatient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patient)
}

// DeactivatePatient soft-deletes: the patient disappears from default
// table views but the row is kept.
func (h *Handler) DeactivatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	if err := h.service.DeactivatePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "patient deactivated"})
}

func (h *Handler) UpdateMedicalInfo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	var req model.UpdateMedicalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.service.UpdateMedicalInfo(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, info)
}

func (h *Handler) GetAdherence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	metrics, err := h.service.GetMetrics(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, metrics)
}

// normalizeDirection keeps unknown values from reaching the sorter.
func normalizeDirection(dir string) patientService.SortDirection {
	if strings.EqualFold(dir, string(patientService.SortDescending)) {
		return patientService.SortDescending
	}
	return patientService.SortAscending
}
