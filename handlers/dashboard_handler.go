package handlers

import (
	"net/http"

	"github.com/Mayonesio/disckatus-tournaments-sub000/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
