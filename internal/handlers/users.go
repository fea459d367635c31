package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
	"github.com/AnshRaj112/reportguard-backend/internal/respond"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

type profileResponse struct {
	Message string              `json:"message"`
	User    *models.UserProfile `json:"user"`
}

// Register handles POST /api/users. Registering an existing uid returns
// the stored profile with 200.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, created, err := h.profiles.Register(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if !created {
		respond.JSON(w, http.StatusOK, profileResponse{Message: "User already registered", User: p})
		return
	}
	respond.JSON(w, http.StatusCreated, profileResponse{Message: "User registered successfully", User: p})
}

// Get handles GET /api/users/{uid}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.profiles.List(r.Context(), query.ParseRequest(r.URL.Query()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

type statusRequest struct {
	Status string `json:"status"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateStatus handles PATCH /api/users/{uid}/status.
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, changed, err := h.profiles.UpdateStatus(r.Context(), actor, chi.URLParam(r, "uid"), req.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}
	writeProfileChange(w, p, changed, "User status updated")
}

// UpdateRole handles PATCH /api/users/{uid}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	var req roleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	p, changed, err := h.profiles.UpdateRole(r.Context(), actor, chi.URLParam(r, "uid"), req.Role)
	if err != nil {
		respond.Error(w, err)
		return
	}
	writeProfileChange(w, p, changed, "User role updated")
}

// Delete handles DELETE /api/users/{uid}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.profiles.Delete(r.Context(), actor, chi.URLParam(r, "uid")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "User deleted successfully")
}

func writeProfileChange(w http.ResponseWriter, p *models.UserProfile, changed bool, done string) {
	msg := done
	if !changed {
		msg = "No changes: value is already set"
	}
	respond.JSON(w, http.StatusOK, profileResponse{Message: msg, User: p})
}
