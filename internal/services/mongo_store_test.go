package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/database"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

func mockReports(mt *mtest.T) *services.MongoReports {
	return services.NewMongoReports(database.NewMongoFromDatabase(mt.DB))
}

func sentCommand(mt *mtest.T) bson.Raw {
	mt.Helper()
	ev := mt.GetStartedEvent()
	require.NotNil(mt, ev)
	return ev.Command
}

func writeResult(n, modified int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: modified})
}

func TestMongoReportsPreconditions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("trash only matches active reports", func(mt *mtest.T) {
		mt.AddMockResponses(writeResult(1, 1))
		changed, err := mockReports(mt).MarkTrashed(ctx, id, "u1", time.Now())
		require.NoError(mt, err)
		assert.True(mt, changed)

		cmd := sentCommand(mt)
		assert.Equal(mt, id, cmd.Lookup("updates", "0", "q", "_id").ObjectID())
		assert.False(mt, cmd.Lookup("updates", "0", "q", "deletedAt", "$exists").Boolean())
		assert.Equal(mt, "u1", cmd.Lookup("updates", "0", "u", "$set", "deletedBy").StringValue())
	})

	mt.Run("trash of an already trashed report changes nothing", func(mt *mtest.T) {
		mt.AddMockResponses(writeResult(0, 0))
		changed, err := mockReports(mt).MarkTrashed(ctx, id, "u1", time.Now())
		require.NoError(mt, err)
		assert.False(mt, changed)
	})

	mt.Run("restore only matches trashed reports", func(mt *mtest.T) {
		mt.AddMockResponses(writeResult(1, 1))
		restored, err := mockReports(mt).Restore(ctx, id)
		require.NoError(mt, err)
		assert.True(mt, restored)

		cmd := sentCommand(mt)
		assert.True(mt, cmd.Lookup("updates", "0", "q", "deletedAt", "$exists").Boolean())
		_, err = cmd.LookupErr("updates", "0", "u", "$unset", "deletedAt")
		assert.NoError(mt, err)
		_, err = cmd.LookupErr("updates", "0", "u", "$unset", "deletedBy")
		assert.NoError(mt, err)
	})

	mt.Run("restore of an active report matches nothing", func(mt *mtest.T) {
		mt.AddMockResponses(writeResult(0, 0))
		restored, err := mockReports(mt).Restore(ctx, id)
		require.NoError(mt, err)
		assert.False(mt, restored)
	})

	mt.Run("purge from trash requires deletedAt", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))
		deleted, err := mockReports(mt).Delete(ctx, id, true)
		require.NoError(mt, err)
		assert.True(mt, deleted)
		assert.True(mt, sentCommand(mt).Lookup("deletes", "0", "q", "deletedAt", "$exists").Boolean())
	})

	mt.Run("admin delete ignores trash state", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))
		deleted, err := mockReports(mt).Delete(ctx, id, false)
		require.NoError(mt, err)
		assert.True(mt, deleted)
		_, err = sentCommand(mt).LookupErr("deletes", "0", "q", "deletedAt")
		assert.Error(mt, err)
	})

	mt.Run("bulk restore is one update over trashed ids", func(mt *mtest.T) {
		other := primitive.NewObjectID()
		mt.AddMockResponses(writeResult(2, 2))
		matched, modified, err := mockReports(mt).RestoreMany(ctx, []primitive.ObjectID{id, other})
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, matched)
		assert.EqualValues(mt, 2, modified)

		cmd := sentCommand(mt)
		assert.True(mt, cmd.Lookup("updates", "0", "multi").Boolean())
		assert.True(mt, cmd.Lookup("updates", "0", "q", "deletedAt", "$exists").Boolean())
		ids, err := cmd.Lookup("updates", "0", "q", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, ids, 2)
	})

	mt.Run("bulk purge is one delete over trashed ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))
		deleted, err := mockReports(mt).DeleteMany(ctx, []primitive.ObjectID{id})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, deleted)

		cmd := sentCommand(mt)
		assert.EqualValues(mt, 0, cmd.Lookup("deletes", "0", "limit").AsInt64())
		assert.True(mt, cmd.Lookup("deletes", "0", "q", "deletedAt", "$exists").Boolean())
	})

	mt.Run("missing report is NotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "reportguard.userReports", mtest.FirstBatch))
		_, err := mockReports(mt).Get(ctx, id)
		assert.Equal(mt, 404, apperr.Status(err))
	})
}

func TestMongoProfilesDuplicateUID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key maps to ErrDuplicateProfile", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))
		profiles := services.NewMongoProfiles(database.NewMongoFromDatabase(mt.DB))

		err := profiles.Insert(context.Background(), &models.UserProfile{UID: "u1", Email: "u1@example.com"})
		assert.ErrorIs(mt, err, services.ErrDuplicateProfile)
	})
}
