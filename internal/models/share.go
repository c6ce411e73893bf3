package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareStatus is the customer-interest state of a shared property.
// The enumeration is closed; anything else is invalid input.
type ShareStatus string

const (
	SharePending       ShareStatus = "Pending"
	ShareInterested    ShareStatus = "Interested"
	ShareNotInterested ShareStatus = "Not-Interested"
)

// Valid reports whether s is a member of the closed status set.
func (s ShareStatus) Valid() bool {
	switch s {
	case SharePending, ShareInterested, ShareNotInterested:
		return true
	}
	return false
}

// Share exposes one property to one recipient. At most one Share may
// exist per (userId, sharedWith, propertyId) triple.
type Share struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	SharedWith primitive.ObjectID `bson:"sharedWith" json:"sharedWith"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Status     ShareStatus        `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SharedProperty is the expanded view returned to clients: the share
// itself plus the recipient contact and the property document.
type SharedProperty struct {
	ID         primitive.ObjectID `json:"id"`
	SharedAt   time.Time          `json:"sharedAt"`
	Status     ShareStatus        `json:"status"`
	SharedWith *UserSummary       `json:"sharedWith,omitempty"`
	Property   *Property          `json:"property,omitempty"`
}
