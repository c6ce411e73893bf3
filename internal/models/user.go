package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role defines the account roles known to the system.
type Role string

const (
	RoleUser   Role = "user"
	RoleBroker Role = "broker"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBroker, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account: a customer, a broker or an admin.
// Password and OTP fields are never serialized to JSON.
type User struct {
	ID                         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName                   string             `bson:"fullName" json:"fullName"`
	MobileNo                   string             `bson:"mobileNo" json:"mobileNo"`
	Email                      string             `bson:"email" json:"email"`
	Address                    string             `bson:"address" json:"address"`
	PasswordHash               string             `bson:"password" json:"-"`
	Role                       Role               `bson:"role" json:"role"`
	IsVerified                 bool               `bson:"isVerified" json:"isVerified"`
	IsActive                   bool               `bson:"isActive" json:"isActive"`
	IsDeleted                  bool               `bson:"isDeleted" json:"-"`
	OTP                        string             `bson:"otp,omitempty" json:"-"`
	OTPExpire                  *time.Time         `bson:"otpExpire,omitempty" json:"-"`
	IsSubscribedForCommercial  bool               `bson:"isSubscribedForCommercial" json:"isSubscribedForCommercial"`
	IsSubscribedForResidential bool               `bson:"isSubscribedForResidential" json:"isSubscribedForResidential"`
	CreatedAt                  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the partial owner expansion attached to properties and
// shares: contact fields only, nothing sensitive.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"fullName" json:"fullName"`
	MobileNo string             `bson:"mobileNo" json:"mobileNo"`
	Email    string             `bson:"email" json:"email"`
}

// Summary returns the contact-only view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, MobileNo: u.MobileNo, Email: u.Email}
}
