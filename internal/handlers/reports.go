package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
	"github.com/AnshRaj112/reportguard-backend/internal/respond"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Submit handles POST /api/userReports.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitReportRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	report, err := h.reports.Submit(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, report)
}

// List handles GET /api/userReports and /api/allUserReports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.reports.List(r.Context(), query.ParseRequest(r.URL.Query()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// ListSuspended handles GET /api/suspendedUsers.
func (h *ReportHandler) ListSuspended(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.ReportSuspended)
}

// ListBanned handles GET /api/bannedUsers.
func (h *ReportHandler) ListBanned(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.ReportBanned)
}

func (h *ReportHandler) listByStatus(w http.ResponseWriter, r *http.Request, status models.ReportStatus) {
	page, err := h.reports.ListByStatus(r.Context(), status, query.ParseRequest(r.URL.Query()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// ListTrashed handles GET /api/trashedReports.
func (h *ReportHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	page, err := h.reports.ListTrashed(r.Context(), query.ParseRequest(r.URL.Query()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// Trash handles DELETE /api/userReports/{id} for the report's own reporter.
func (h *ReportHandler) Trash(w http.ResponseWriter, r *http.Request) {
	claims, ok := authz.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, authz.ErrNoIdentity)
		return
	}
	changed, err := h.reports.Trash(r.Context(), claims.UID, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if !changed {
		respond.Message(w, http.StatusOK, "No changes: report is already in trash")
		return
	}
	respond.Message(w, http.StatusOK, "Report moved to trash")
}

// AdminDelete handles DELETE /api/admin/userReports/{id}.
func (h *ReportHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.reports.AdminDelete, "Report permanently deleted")
}

// Restore handles PATCH /api/trashedReports/{id}/restore.
func (h *ReportHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.reports.Restore, "Report restored successfully")
}

// Purge handles DELETE /api/trashedReports/{id}/permanent.
func (h *ReportHandler) Purge(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.reports.Purge, "Report permanently deleted from trash")
}

type reportAction func(ctx context.Context, actor *models.UserProfile, id string) error

func (h *ReportHandler) adminAction(w http.ResponseWriter, r *http.Request, action reportAction, done string) {
	actor, err := actorFrom(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := action(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, done)
}

type bulkResponse struct {
	Message string `json:"message"`
	*services.BulkResult
}

// Bulk handles POST /api/trashedReports/bulk-action.
func (h *ReportHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req services.BulkRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	res, err := h.reports.Bulk(r.Context(), actor, req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	msg := "Reports restored"
	if res.Action == services.BulkPermanentDelete {
		msg = "Reports permanently deleted"
	}
	respond.JSON(w, http.StatusOK, bulkResponse{Message: msg, BulkResult: res})
}

// actorFrom returns the profile the authorization gate attached.
func actorFrom(r *http.Request) (*models.UserProfile, error) {
	p, ok := authz.ProfileFromContext(r.Context())
	if !ok {
		return nil, authz.ErrNoIdentity
	}
	return p, nil
}
