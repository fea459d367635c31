package services

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
)

// SubmitReportRequest is the body of POST /api/userReports.
type SubmitReportRequest struct {
	Name         string `json:"name" validate:"required"`
	FacebookLink string `json:"facebookLink" validate:"required,link"`
	Phone        string `json:"phone" validate:"required,phone"`
	Status       string `json:"status" validate:"required,reportstatus"`
	Reason       string `json:"reason" validate:"required"`
	ReporterID   string `json:"reporterId" validate:"required"`
	ReporterName string `json:"reporterName" validate:"required"`
}

type BulkAction string

const (
	BulkRestore         BulkAction = "restore"
	BulkPermanentDelete BulkAction = "permanent_delete"
)

// BulkRequest is the body of POST /api/trashedReports/bulk-action.
type BulkRequest struct {
	IDs    []string   `json:"ids"`
	Action BulkAction `json:"action"`
}

// BulkResult reports what a bulk action touched.
type BulkResult struct {
	Action        BulkAction `json:"action"`
	Requested     int        `json:"requested"`
	Valid         int        `json:"valid"`
	InvalidIDs    []string   `json:"invalidIds"`
	MatchedCount  int64      `json:"matchedCount"`
	ModifiedCount int64      `json:"modifiedCount"`
	DeletedCount  int64      `json:"deletedCount"`
}

// ReportService implements the report lifecycle: active, trashed, purged.
type ReportService struct {
	reports  ReportStore
	profiles authz.ProfileFinder
	audit    AuditLog
	events   EventPublisher
	now      func() time.Time
}

// NewReportService wires the report lifecycle. audit and events may be nil.
func NewReportService(reports ReportStore, profiles authz.ProfileFinder, audit AuditLog, events EventPublisher) *ReportService {
	return &ReportService{
		reports:  reports,
		profiles: profiles,
		audit:    audit,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a new active report.
func (s *ReportService) Submit(ctx context.Context, req SubmitReportRequest) (*models.Report, error) {
	trimStrings(&req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	r := &models.Report{
		Name:         req.Name,
		FacebookLink: req.FacebookLink,
		Phone:        req.Phone,
		Status:       models.ReportStatus(req.Status),
		Reason:       req.Reason,
		ReporterID:   req.ReporterID,
		ReporterName: req.ReporterName,
		Timestamp:    s.now().Truncate(time.Millisecond),
	}
	if err := s.reports.Insert(ctx, r); err != nil {
		return nil, apperr.Internal("Failed to submit report", err)
	}

	publishEvent(ctx, s.events, models.ReportEvent{
		Type:     models.EventReportCreated,
		ReportID: r.ID.Hex(),
		ActorUID: r.ReporterID,
	})
	return r, nil
}

// List returns active reports.
func (s *ReportService) List(ctx context.Context, req query.Request) (*query.Page[models.Report], error) {
	req.IncludeDeleted = false
	page, err := s.reports.List(ctx, req)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch reports", err)
	}
	return page, nil
}

// ListByStatus returns active reports with a fixed status.
func (s *ReportService) ListByStatus(ctx context.Context, status models.ReportStatus, req query.Request) (*query.Page[models.Report], error) {
	req.Base = query.Eq{Field: "status", Value: string(status)}
	req.Status = ""
	return s.List(ctx, req)
}

// ListTrashed returns trashed reports.
func (s *ReportService) ListTrashed(ctx context.Context, req query.Request) (*query.Page[models.Report], error) {
	req.IncludeDeleted = true
	page, err := s.reports.List(ctx, req)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch trashed reports", err)
	}
	return page, nil
}

// Trash moves the caller's own report to the trash. Only callers whose
// profile role is exactly user may do this. changed is false when the
// report was already trashed.
func (s *ReportService) Trash(ctx context.Context, callerUID, id string) (changed bool, err error) {
	oid, err := parseReportID(id)
	if err != nil {
		return false, err
	}

	caller, err := s.profiles.FindByUID(ctx, callerUID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return false, authz.ErrProfileNotFound
		}
		return false, apperr.Internal("Failed to load profile", err)
	}
	if caller.Role != models.RoleUser {
		return false, apperr.Forbidden("Forbidden: only users can delete their own reports")
	}

	r, err := s.reports.Get(ctx, oid)
	if err != nil {
		return false, storeErr(err, "Failed to load report")
	}
	if r.ReporterID != callerUID {
		return false, apperr.Forbidden("Forbidden: you can only delete your own reports")
	}
	if r.Trashed() {
		return false, nil
	}

	changed, err = s.reports.MarkTrashed(ctx, oid, callerUID, s.now().Truncate(time.Millisecond))
	if err != nil {
		return false, apperr.Internal("Failed to delete report", err)
	}
	if changed {
		publishEvent(ctx, s.events, models.ReportEvent{
			Type:     models.EventReportTrashed,
			ReportID: oid.Hex(),
			ActorUID: callerUID,
		})
	}
	return changed, nil
}

// AdminDelete permanently removes a report whether or not it is trashed.
func (s *ReportService) AdminDelete(ctx context.Context, actor *models.UserProfile, id string) error {
	oid, err := parseReportID(id)
	if err != nil {
		return err
	}
	deleted, err := s.reports.Delete(ctx, oid, false)
	if err != nil {
		return apperr.Internal("Failed to delete report", err)
	}
	if !deleted {
		return apperr.NotFound("Report not found")
	}

	s.recordReport(ctx, actor, models.AuditReportDeleted, oid.Hex(), "")
	publishEvent(ctx, s.events, models.ReportEvent{Type: models.EventReportPurged, ReportID: oid.Hex(), ActorUID: actor.UID})
	return nil
}

// Restore reactivates a trashed report.
func (s *ReportService) Restore(ctx context.Context, actor *models.UserProfile, id string) error {
	oid, err := parseReportID(id)
	if err != nil {
		return err
	}
	restored, err := s.reports.Restore(ctx, oid)
	if err != nil {
		return apperr.Internal("Failed to restore report", err)
	}
	if !restored {
		return apperr.NotFound("Report not found in trash")
	}

	s.recordReport(ctx, actor, models.AuditReportRestored, oid.Hex(), "")
	publishEvent(ctx, s.events, models.ReportEvent{Type: models.EventReportRestored, ReportID: oid.Hex(), ActorUID: actor.UID})
	return nil
}

// Purge permanently removes a trashed report.
func (s *ReportService) Purge(ctx context.Context, actor *models.UserProfile, id string) error {
	oid, err := parseReportID(id)
	if err != nil {
		return err
	}
	deleted, err := s.reports.Delete(ctx, oid, true)
	if err != nil {
		return apperr.Internal("Failed to delete report", err)
	}
	if !deleted {
		return apperr.NotFound("Report not found in trash")
	}

	s.recordReport(ctx, actor, models.AuditReportPurged, oid.Hex(), "")
	publishEvent(ctx, s.events, models.ReportEvent{Type: models.EventReportPurged, ReportID: oid.Hex(), ActorUID: actor.UID})
	return nil
}

// Bulk restores or purges many trashed reports in one store operation.
// Malformed ids are dropped and listed in the result.
func (s *ReportService) Bulk(ctx context.Context, actor *models.UserProfile, req BulkRequest) (*BulkResult, error) {
	if req.Action != BulkRestore && req.Action != BulkPermanentDelete {
		return nil, apperr.Validation("Invalid action. Must be 'restore' or 'permanent_delete'")
	}
	if len(req.IDs) == 0 {
		return nil, apperr.Validation("No report IDs provided")
	}

	res := &BulkResult{Action: req.Action, Requested: len(req.IDs), InvalidIDs: []string{}}
	var ids []primitive.ObjectID
	var hexIDs []string
	for _, raw := range req.IDs {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			log.Printf("⚠️  Bulk %s: skipping invalid report id %q", req.Action, raw)
			res.InvalidIDs = append(res.InvalidIDs, raw)
			continue
		}
		ids = append(ids, oid)
		hexIDs = append(hexIDs, oid.Hex())
	}
	res.Valid = len(ids)
	if len(ids) == 0 {
		return nil, apperr.Validation("No valid report IDs provided")
	}

	event := models.ReportEvent{IDs: hexIDs, ActorUID: actor.UID}
	switch req.Action {
	case BulkRestore:
		matched, modified, err := s.reports.RestoreMany(ctx, ids)
		if err != nil {
			return nil, apperr.Internal("Failed to restore reports", err)
		}
		res.MatchedCount, res.ModifiedCount = matched, modified
		event.Type = models.EventReportsBulkRestore
	case BulkPermanentDelete:
		deleted, err := s.reports.DeleteMany(ctx, ids)
		if err != nil {
			return nil, apperr.Internal("Failed to delete reports", err)
		}
		res.DeletedCount = deleted
		event.Type = models.EventReportsBulkPurge
	}

	s.recordReport(ctx, actor, models.AuditReportsBulk, "bulk", string(req.Action)+" "+strings.Join(hexIDs, ","))
	publishEvent(ctx, s.events, event)
	return res, nil
}

func (s *ReportService) recordReport(ctx context.Context, actor *models.UserProfile, action models.AuditAction, target, detail string) {
	recordAudit(ctx, s.audit, models.AuditEntry{
		ActorUID:   actor.UID,
		Action:     action,
		TargetType: "report",
		TargetID:   target,
		Detail:     detail,
	})
}

func parseReportID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid report ID")
	}
	return oid, nil
}

// storeErr passes NotFound through and wraps anything else as Internal.
func storeErr(err error, msg string) error {
	if apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}
	return apperr.Internal(msg, err)
}
