package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Area is one entry of the serviced-area directory.
type Area struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AreaName string             `bson:"areaName" json:"areaName"`
	Pincode  int                `bson:"pincode" json:"pincode"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}
