package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType distinguishes residential from commercial listings.
type PropertyType string

const (
	PropertyResidential PropertyType = "Residential"
	PropertyCommercial  PropertyType = "Commercial"
)

// Valid reports whether t is a known listing type.
func (t PropertyType) Valid() bool {
	return t == PropertyResidential || t == PropertyCommercial
}

// PropertyStatus is the lifecycle state of a listing.
type PropertyStatus string

const (
	PropertyActive     PropertyStatus = "Active"
	PropertyDealClosed PropertyStatus = "Deal-Closed"
)

// Valid reports whether s is a known lifecycle status.
func (s PropertyStatus) Valid() bool {
	return s == PropertyActive || s == PropertyDealClosed
}

// FurnishedState describes the furnishing level of a property.
type FurnishedState string

const (
	FurnishedFully FurnishedState = "Fully"
	FurnishedSemi  FurnishedState = "Semi"
	Unfurnished    FurnishedState = "Unfurnished"
)

// Valid reports whether f is a known furnishing level.
func (f FurnishedState) Valid() bool {
	switch f {
	case FurnishedFully, FurnishedSemi, Unfurnished:
		return true
	}
	return false
}

// MediaKind is the declared kind of an uploaded media item.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is one uploaded file attached to a property.
type MediaItem struct {
	Type MediaKind `bson:"type" json:"type"`
	Path string    `bson:"path" json:"path"`
}

// Property is a listing owned by a broker.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Area        string             `bson:"area" json:"area"`
	Floor       string             `bson:"floor,omitempty" json:"floor,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        PropertyType       `bson:"type" json:"type"`
	Category    string             `bson:"category" json:"category"`
	Format      string             `bson:"format,omitempty" json:"format,omitempty"`
	SizeType    string             `bson:"sizeType,omitempty" json:"sizeType,omitempty"`
	Size        string             `bson:"size,omitempty" json:"size,omitempty"`
	Furnished   FurnishedState     `bson:"furnished" json:"furnished"`
	Status      PropertyStatus     `bson:"status" json:"status"`
	PostedBy    primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	Media       []MediaItem        `bson:"media" json:"media"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyWithBroker pairs a property with the contact view of its owner.
type PropertyWithBroker struct {
	Property `bson:",inline"`
	Broker   *UserSummary `bson:"-" json:"postedByDetails,omitempty"`
}
