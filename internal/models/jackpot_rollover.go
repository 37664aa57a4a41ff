package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JackpotRollover records a jackpot amount carried from a settled drawing
// into its successor, either because class 1 had no winner or because the
// jackpot was won and reset to the configured floor.
type JackpotRollover struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SourceDrawingID    primitive.ObjectID `bson:"sourceDrawingId" json:"sourceDrawingId"`
	SourceDrawingDate  time.Time          `bson:"sourceDrawingDate" json:"sourceDrawingDate"`
	RolloverAmount     float64            `bson:"rolloverAmount" json:"rolloverAmount"`
	JackpotWon         bool               `bson:"jackpotWon" json:"jackpotWon"`
	DestinationDrawing primitive.ObjectID `bson:"destinationDrawingId,omitempty" json:"destinationDrawingId,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
