// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"cms-admin/internal/middleware"
	"cms-admin/internal/pkg/response"
	dashboardUsecase "cms-admin/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *dashboardUsecase.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *dashboardUsecase.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Overview handles GET /dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	s := middleware.MustGetSession(c)

	overview, err := h.dashboardService.Overview(c.Request.Context(), s.User)
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		response.FromError(c, "failed to load dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard", overview)
}
