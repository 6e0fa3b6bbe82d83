package handlers

import (
	"net/http"

	"github.com/zynordev/okurundan/internal/admin"
)

type AdminHandler struct {
	Admin *admin.Service
}

// Dashboard returns the aggregate stats. Any resolved user may call it;
// the role field is carried but deliberately unchecked, matching the
// existing contract.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   h.Admin.Dashboard(),
	})
}
