package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requirement is a customer's saved search template. Present attributes
// are matched disjunctively against properties.
type Requirement struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyPurpose string             `bson:"propertyPurpose" json:"propertyPurpose"`
	PropertyType    string             `bson:"propertyType" json:"propertyType"`
	Floor           string             `bson:"floor,omitempty" json:"floor,omitempty"`
	Furnished       string             `bson:"furnished,omitempty" json:"furnished,omitempty"`
	Format          string             `bson:"format,omitempty" json:"format,omitempty"`
	State           string             `bson:"state,omitempty" json:"state,omitempty"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	Area            string             `bson:"area" json:"area"`
	Pincode         string             `bson:"pincode" json:"pincode"`
	Size            string             `bson:"size" json:"size"`
	PriceRange      string             `bson:"priceRange" json:"priceRange"`
	UserDetails     primitive.ObjectID `bson:"userDetails" json:"userDetails"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
