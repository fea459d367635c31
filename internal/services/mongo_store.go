package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/database"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
)

// MongoReports is the MongoDB ReportStore.
type MongoReports struct {
	db *database.Mongo
}

func NewMongoReports(db *database.Mongo) *MongoReports {
	return &MongoReports{db: db}
}

func (s *MongoReports) coll(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, database.ReportsCollection)
}

func (s *MongoReports) Insert(ctx context.Context, r *models.Report) error {
	col, err := s.coll(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return nil
}

func (s *MongoReports) Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var r models.Report
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Report not found")
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &r, nil
}

func (s *MongoReports) List(ctx context.Context, req query.Request) (*query.Page[models.Report], error) {
	col, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Execute[models.Report](ctx, col, query.Reports, req)
}

func (s *MongoReports) MarkTrashed(ctx context.Context, id primitive.ObjectID, by string, at time.Time) (bool, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "deletedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"deletedAt": at, "deletedBy": by}},
	)
	if err != nil {
		return false, fmt.Errorf("trash report: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoReports) Restore(ctx context.Context, id primitive.ObjectID) (bool, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "deletedAt": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"deletedAt": "", "deletedBy": ""}},
	)
	if err != nil {
		return false, fmt.Errorf("restore report: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoReports) Delete(ctx context.Context, id primitive.ObjectID, trashedOnly bool) (bool, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	filter := bson.M{"_id": id}
	if trashedOnly {
		filter["deletedAt"] = bson.M{"$exists": true}
	}
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete report: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoReports) RestoreMany(ctx context.Context, ids []primitive.ObjectID) (int64, int64, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return 0, 0, err
	}
	res, err := col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "deletedAt": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"deletedAt": "", "deletedBy": ""}},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("restore reports: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (s *MongoReports) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "deletedAt": bson.M{"$exists": true}})
	if err != nil {
		return 0, fmt.Errorf("delete reports: %w", err)
	}
	return res.DeletedCount, nil
}

// MongoProfiles is the MongoDB ProfileStore.
type MongoProfiles struct {
	db *database.Mongo
}

func NewMongoProfiles(db *database.Mongo) *MongoProfiles {
	return &MongoProfiles{db: db}
}

func (s *MongoProfiles) coll(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, database.ProfilesCollection)
}

func (s *MongoProfiles) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var p models.UserProfile
	if err := col.FindOne(ctx, bson.M{"uid": uid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (s *MongoProfiles) Insert(ctx context.Context, p *models.UserProfile) error {
	col, err := s.coll(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateProfile
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *MongoProfiles) List(ctx context.Context, req query.Request) (*query.Page[models.UserProfile], error) {
	col, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Execute[models.UserProfile](ctx, col, query.Profiles, req)
}

func (s *MongoProfiles) SetStatus(ctx context.Context, uid string, status models.ProfileStatus) (bool, error) {
	return s.set(ctx, uid, "status", status)
}

func (s *MongoProfiles) SetRole(ctx context.Context, uid string, role models.Role) (bool, error) {
	return s.set(ctx, uid, "role", role)
}

func (s *MongoProfiles) set(ctx context.Context, uid, field string, value interface{}) (bool, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	res, err := col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return false, fmt.Errorf("update profile %s: %w", field, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoProfiles) Delete(ctx context.Context, uid string) (bool, error) {
	col, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	return res.DeletedCount > 0, nil
}
