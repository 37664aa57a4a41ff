package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionSource identifies what caused a balance change.
type TransactionSource string

const (
	SourceDeposit        TransactionSource = "DEPOSIT"
	SourceTicketPurchase TransactionSource = "TICKET_PURCHASE"
	SourceWinnings       TransactionSource = "WINNINGS"
	SourceReversal       TransactionSource = "REVERSAL"
)

// BalanceTransaction is the audit record of a single balance credit or
// debit. Amount is positive for credits and negative for debits.
type BalanceTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Source    TransactionSource  `bson:"source" json:"source"`
	TicketID  primitive.ObjectID `bson:"ticketId,omitempty" json:"ticketId,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
