package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminSettings holds the runtime-mutable administrative knobs. They are
// read with relaxed consistency and kept separate from the payout-critical
// drawing/reserve state.
type AdminSettings struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ManualSalesStop    bool                 `bson:"manualSalesStop" json:"manualSalesStop"`
	CutoffExemptUsers  []primitive.ObjectID `bson:"cutoffExemptUsers" json:"cutoffExemptUsers"`
	BlockedCountries   []string             `bson:"blockedCountries" json:"blockedCountries"`
	IntelligentDrawing bool                 `bson:"intelligentDrawing" json:"intelligentDrawing"`
	UpdatedBy          string               `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsExempt reports whether the user may purchase past the sales cutoff.
func (s *AdminSettings) IsExempt(userID primitive.ObjectID) bool {
	for _, id := range s.CutoffExemptUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// IsCountryBlocked reports whether purchases from the country are geoblocked.
func (s *AdminSettings) IsCountryBlocked(countryCode string) bool {
	for _, c := range s.BlockedCountries {
		if c == countryCode {
			return true
		}
	}
	return false
}
