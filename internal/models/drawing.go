package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Drawing represents one drawing cycle. At most one drawing is active at
// any time; the active drawing has empty number slices until it is settled.
type Drawing struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date                time.Time          `bson:"date" json:"date"`
	MainNumbers         []int              `bson:"mainNumbers" json:"mainNumbers"`
	WorldNumbers        []int              `bson:"worldNumbers" json:"worldNumbers"`
	JackpotAmount       float64            `bson:"jackpotAmount" json:"jackpotAmount"`
	RealJackpot         float64            `bson:"realJackpot" json:"realJackpot"`
	SimulatedJackpot    float64            `bson:"simulatedJackpot" json:"simulatedJackpot"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	WinnersByClass      map[int]int        `bson:"winnersByClass,omitempty" json:"winnersByClass,omitempty"`
	TotalWinningsPayout float64            `bson:"totalWinningsPayout" json:"totalWinningsPayout"`
	NextJackpotAmount   float64            `bson:"nextJackpotAmount" json:"nextJackpotAmount"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Drawn reports whether numbers have been assigned to this drawing.
func (d *Drawing) Drawn() bool {
	return len(d.MainNumbers) == 5 && len(d.WorldNumbers) == 2
}

// SalesCutoffAt returns the instant sales close, the configured window
// before the scheduled drawing time.
func (d *Drawing) SalesCutoffAt(window time.Duration) time.Time {
	return d.Date.Add(-window)
}
