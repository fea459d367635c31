package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus is the moderation outcome a reporter asks for.
type ReportStatus string

const (
	ReportSuspended ReportStatus = "suspended"
	ReportBanned    ReportStatus = "banned"
)

func (s ReportStatus) Valid() bool {
	return s == ReportSuspended || s == ReportBanned
}

// Report is a moderation report about a Facebook account.
// DeletedAt is set while the report sits in the trash and absent otherwise.
type Report struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	FacebookLink string             `bson:"facebookLink" json:"facebookLink"`
	Phone        string             `bson:"phone" json:"phone"`
	Status       ReportStatus       `bson:"status" json:"status"`
	Reason       string             `bson:"reason" json:"reason"`
	ReporterID   string             `bson:"reporterId" json:"reporterId"`
	ReporterName string             `bson:"reporterName" json:"reporterName"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`

	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy string     `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
}

// Trashed reports whether the report is soft-deleted.
func (r *Report) Trashed() bool {
	return r.DeletedAt != nil
}
