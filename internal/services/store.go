package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
)

// ErrDuplicateProfile is returned by ProfileStore.Insert when a profile with
// the same uid already exists.
var ErrDuplicateProfile = errors.New("profile already exists")

// ReportStore persists reports. Every mutation is a single-document or
// single-batch operation whose filter carries its own precondition.
// Lookups of unknown ids return an apperr NotFound error.
type ReportStore interface {
	Insert(ctx context.Context, r *models.Report) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	List(ctx context.Context, req query.Request) (*query.Page[models.Report], error)

	// MarkTrashed trashes an active report. It reports false when the
	// report was not active.
	MarkTrashed(ctx context.Context, id primitive.ObjectID, by string, at time.Time) (bool, error)
	// Restore reactivates a trashed report. It reports false when no
	// trashed report has that id.
	Restore(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Delete removes a report. With trashedOnly set, only a trashed
	// report matches.
	Delete(ctx context.Context, id primitive.ObjectID, trashedOnly bool) (bool, error)

	RestoreMany(ctx context.Context, ids []primitive.ObjectID) (matched, modified int64, err error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (deleted int64, err error)
}

// ProfileStore persists user profiles keyed by uid.
type ProfileStore interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	Insert(ctx context.Context, p *models.UserProfile) error
	List(ctx context.Context, req query.Request) (*query.Page[models.UserProfile], error)
	SetStatus(ctx context.Context, uid string, status models.ProfileStatus) (bool, error)
	SetRole(ctx context.Context, uid string, role models.Role) (bool, error)
	Delete(ctx context.Context, uid string) (bool, error)
}
