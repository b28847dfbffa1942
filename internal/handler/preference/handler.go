package preference

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trialdash/patient-api/internal/model"
	preferenceService "github.com/trialdash/patient-api/internal/service/preference"
	"github.com/trialdash/patient-api/pkg/httputil"
)

type Handler struct {
	service *preferenceService.Service
}

func NewHandler(service *preferenceService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prefs := r.Group("/users/:userId/preferences")
	{
		prefs.GET("/columns", h.GetColumns)
		prefs.PUT("/columns", h.SetColumns)
	}
}

func (h *Handler) GetColumns(c *gin.Context) {
	prefs, err := h.service.GetColumns(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, prefs)
}

// SetColumns overwrites the full flag set; last write wins.
func (h *Handler) SetColumns(c *gin.Context) {
	var prefs model.ColumnPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetColumns(c.Request.Context(), c.Param("userId"), prefs); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, prefs)
}
