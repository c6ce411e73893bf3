package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription records a paid subscription tied to a customer requirement.
type Subscription struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	RequirementID   primitive.ObjectID `bson:"customerPropertyRequirementId" json:"customerPropertyRequirementId"`
	AmountPaid      float64            `bson:"amountPaid,omitempty" json:"amountPaid,omitempty"`
	RemainingAmount float64            `bson:"remainingAmount,omitempty" json:"remainingAmount,omitempty"`
	RefundAmount    float64            `bson:"refundAmount,omitempty" json:"refundAmount,omitempty"`
	IsRefunded      bool               `bson:"isRefunded" json:"isRefunded"`
	EarnAmount      float64            `bson:"earnAmount" json:"earnAmount"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
