package handlers

import (
	"net/http"

	"github.com/AnshRaj112/reportguard-backend/internal/query"
	"github.com/AnshRaj112/reportguard-backend/internal/respond"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

type AuditHandler struct {
	audit services.AuditLog
}

func NewAuditHandler(audit services.AuditLog) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/admin/audit, newest entries first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	req := query.ParseRequest(r.URL.Query())
	page, err := h.audit.List(r.Context(), req.Page, req.Limit)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}
