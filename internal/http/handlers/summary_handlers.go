package handlers

import (
	"net/http"
)

// GetSummaryHandler godoc
// @Summary Inventory summary
// @Description Total stock value, product count and low stock count
// @Tags products
// @Produce json
// @Success 200 {object} models.Summary
// @Failure 500 {object} ErrorResponse
// @Router /products/summary [get]
func GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	s, err := summaryRepo.GetSummary(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, s)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
