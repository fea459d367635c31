package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/identity"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
)

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	UID    string `json:"uid" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	FBName string `json:"fbName"`
}

// IdentityAdmin is the part of the identity provider profile changes touch.
type IdentityAdmin interface {
	identity.ClaimSyncer
	identity.AccountDeleter
}

// ProfileService manages user profiles and keeps the identity provider's
// claims in step with them.
type ProfileService struct {
	profiles ProfileStore
	identity IdentityAdmin
	audit    AuditLog
	now      func() time.Time
}

func NewProfileService(profiles ProfileStore, idp IdentityAdmin, audit AuditLog) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		identity: idp,
		audit:    audit,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a pending user profile, or returns the existing one for
// the uid. created reports which happened.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (p *models.UserProfile, created bool, err error) {
	trimStrings(&req)
	if err := validateStruct(req); err != nil {
		return nil, false, err
	}

	existing, err := s.profiles.FindByUID(ctx, req.UID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, false, apperr.Internal("Failed to register user", err)
	}

	p = &models.UserProfile{
		UID:              req.UID,
		Email:            req.Email,
		FBName:           req.FBName,
		Status:           models.StatusPending,
		Role:             models.RoleUser,
		RegistrationDate: s.now().Truncate(time.Millisecond),
	}
	if err := s.profiles.Insert(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateProfile) {
			// Lost a race with a concurrent registration for the same uid.
			existing, err := s.profiles.FindByUID(ctx, req.UID)
			if err != nil {
				return nil, false, apperr.Internal("Failed to register user", err)
			}
			return existing, false, nil
		}
		return nil, false, apperr.Internal("Failed to register user", err)
	}
	return p, true, nil
}

// Get returns the profile for uid. Pending and rejected profiles are
// withheld.
func (s *ProfileService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, apperr.Validation("User ID is required")
	}
	p, err := s.profiles.FindByUID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, "Failed to fetch user")
	}
	switch p.Status {
	case models.StatusPending:
		return nil, apperr.Forbidden("Your account is pending approval. Please wait for an administrator to review it.")
	case models.StatusRejected:
		return nil, apperr.Forbidden("Your account has been rejected. Please contact an administrator.")
	}
	return p, nil
}

// List returns profiles filtered by status, role and search.
func (s *ProfileService) List(ctx context.Context, req query.Request) (*query.Page[models.UserProfile], error) {
	page, err := s.profiles.List(ctx, req)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}
	return page, nil
}

// UpdateStatus moves a profile to a new status. changed is false when the
// profile already had it.
func (s *ProfileService) UpdateStatus(ctx context.Context, actor *models.UserProfile, uid, status string) (p *models.UserProfile, changed bool, err error) {
	next := models.ProfileStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, false, apperr.Validation("Invalid status. Must be 'approved', 'pending' or 'rejected'")
	}

	p, err = s.profiles.FindByUID(ctx, uid)
	if err != nil {
		return nil, false, storeErr(err, "Failed to fetch user")
	}
	if p.Status == next {
		return p, false, nil
	}

	ok, err := s.profiles.SetStatus(ctx, uid, next)
	if err != nil {
		return nil, false, apperr.Internal("Failed to update status", err)
	}
	if !ok {
		return nil, false, apperr.NotFound("User not found")
	}
	prev := p.Status
	p.Status = next

	// Status claims are informational; a failed push is logged, not fatal.
	if err := s.identity.SetProfileClaims(ctx, uid, p.Role, p.Status); err != nil {
		log.Printf("⚠️  Failed to sync claims for %s after status change: %v", uid, err)
	}

	s.recordProfile(ctx, actor, models.AuditProfileStatus, uid, string(prev)+" -> "+string(next))
	return p, true, nil
}

// UpdateRole assigns a new role and pushes it into the user's identity
// claims before returning. If the push fails the stored role is put back.
func (s *ProfileService) UpdateRole(ctx context.Context, actor *models.UserProfile, uid, role string) (p *models.UserProfile, changed bool, err error) {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return nil, false, authz.ErrInsufficientPrivileges
	}
	next := models.Role(strings.TrimSpace(role))
	if !next.Valid() {
		return nil, false, apperr.Validation("Invalid role. Must be 'user', 'admin' or 'superadmin'")
	}
	if uid == actor.UID && next != models.RoleSuperAdmin {
		return nil, false, apperr.Validation("You cannot demote your own account")
	}

	p, err = s.profiles.FindByUID(ctx, uid)
	if err != nil {
		return nil, false, storeErr(err, "Failed to fetch user")
	}
	if p.Role == next {
		return p, false, nil
	}

	prev := p.Role
	ok, err := s.profiles.SetRole(ctx, uid, next)
	if err != nil {
		return nil, false, apperr.Internal("Failed to update role", err)
	}
	if !ok {
		return nil, false, apperr.NotFound("User not found")
	}

	if err := s.identity.SetProfileClaims(ctx, uid, next, p.Status); err != nil {
		if _, rerr := s.profiles.SetRole(ctx, uid, prev); rerr != nil {
			log.Printf("❌ Failed to revert role for %s after claim sync failure: %v", uid, rerr)
		}
		return nil, false, apperr.Internal("Failed to sync role claims", err)
	}
	p.Role = next

	s.recordProfile(ctx, actor, models.AuditProfileRole, uid, string(prev)+" -> "+string(next))
	return p, true, nil
}

// Delete removes the identity account and then the profile. An identity
// account that is already gone does not stop the profile deletion; any
// other identity failure aborts before the profile is touched.
func (s *ProfileService) Delete(ctx context.Context, actor *models.UserProfile, uid string) error {
	if uid == actor.UID {
		return apperr.Forbidden("Forbidden: you cannot delete your own account")
	}

	target, err := s.profiles.FindByUID(ctx, uid)
	if err != nil {
		return storeErr(err, "Failed to fetch user")
	}
	if actor.Role != models.RoleSuperAdmin && target.Role.IsAdmin() {
		return apperr.Forbidden("Forbidden: admins cannot delete other admins")
	}

	if err := s.identity.DeleteAccount(ctx, uid); err != nil {
		if !errors.Is(err, identity.ErrAccountNotFound) {
			return apperr.Internal("Failed to delete identity account", err)
		}
		log.Printf("Identity account %s already absent; deleting profile only", uid)
	}

	deleted, err := s.profiles.Delete(ctx, uid)
	if err != nil {
		return apperr.Internal("Failed to delete user", err)
	}
	if !deleted {
		return apperr.NotFound("User not found")
	}

	s.recordProfile(ctx, actor, models.AuditProfileDeleted, uid, string(target.Role))
	return nil
}

func (s *ProfileService) recordProfile(ctx context.Context, actor *models.UserProfile, action models.AuditAction, uid, detail string) {
	recordAudit(ctx, s.audit, models.AuditEntry{
		ActorUID:   actor.UID,
		Action:     action,
		TargetType: "user",
		TargetID:   uid,
		Detail:     detail,
	})
}
