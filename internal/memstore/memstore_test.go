package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

func TestReportsTrashPreconditions(t *testing.T) {
	ctx := context.Background()
	s := NewReports()
	r := &models.Report{Name: "A", Status: models.ReportBanned, ReporterID: "u1"}
	require.NoError(t, s.Insert(ctx, r))

	ok, err := s.Restore(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok, "active reports are not restorable")

	ok, err = s.Delete(ctx, r.ID, true)
	require.NoError(t, err)
	assert.False(t, ok, "active reports are not purgeable from trash")

	ok, err = s.MarkTrashed(ctx, r.ID, "u1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.MarkTrashed(ctx, r.ID, "u1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	matched, modified, err := s.RestoreMany(ctx, []primitive.ObjectID{r.ID, r.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, matched)
	assert.EqualValues(t, 1, modified)

	deleted, err := s.DeleteMany(ctx, []primitive.ObjectID{r.ID})
	require.NoError(t, err)
	assert.Zero(t, deleted, "restored report is active again")
	assert.Equal(t, 1, s.Len())
}

func TestStoresReturnInjectedError(t *testing.T) {
	boom := errors.New("store down")
	reports := NewReports()
	reports.Err = boom
	_, err := reports.List(context.Background(), query.Request{})
	assert.ErrorIs(t, err, boom)

	profiles := NewProfiles(models.UserProfile{UID: "u1"})
	assert.ErrorIs(t, profiles.Insert(context.Background(), &models.UserProfile{UID: "u1"}), services.ErrDuplicateProfile)
	profiles.Err = boom
	_, err = profiles.FindByUID(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}
