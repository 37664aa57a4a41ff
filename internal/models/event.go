package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType classifies audit events emitted by the settlement pipeline
// and the jackpot approval workflow.
type EventType string

const (
	EventDrawingSettled  EventType = "DRAWING_SETTLED"
	EventDegradedPayout  EventType = "DEGRADED_PAYOUT"
	EventJackpotPending  EventType = "JACKPOT_PENDING"
	EventJackpotApproved EventType = "JACKPOT_APPROVED"
	EventJackpotRejected EventType = "JACKPOT_REJECTED"
	EventTicketDeleted   EventType = "TICKET_DELETED"
)

// Event is an append-only audit record. Degraded-guarantee payouts are
// payout-integrity events and must be observable, not hidden.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type      EventType          `bson:"type" json:"type"`
	DrawingID primitive.ObjectID `bson:"drawingId,omitempty" json:"drawingId,omitempty"`
	TicketID  primitive.ObjectID `bson:"ticketId,omitempty" json:"ticketId,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Amount    float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	ActorID   primitive.ObjectID `bson:"actorId,omitempty" json:"actorId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
