package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileStatus string

const (
	StatusPending  ProfileStatus = "pending"
	StatusApproved ProfileStatus = "approved"
	StatusRejected ProfileStatus = "rejected"
)

func (s ProfileStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and superadmin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// UserProfile is the application-side record for a Firebase account.
// UID is unique across profiles.
type UserProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UID              string             `bson:"uid" json:"uid"`
	Email            string             `bson:"email" json:"email"`
	FBName           string             `bson:"fbName" json:"fbName"`
	Status           ProfileStatus      `bson:"status" json:"status"`
	Role             Role               `bson:"role" json:"role"`
	RegistrationDate time.Time          `bson:"registrationDate" json:"registrationDate"`
}
