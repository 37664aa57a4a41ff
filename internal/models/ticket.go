package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApprovalStatus represents the admin-approval state of a jackpot (class 1) win.
// Non-jackpot wins are credited immediately and never enter this workflow.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Ticket represents a single lottery ticket: 5 main numbers (1-50) and
// 2 world numbers (1-12), both stored sorted ascending. A ticket belongs
// to exactly one drawing, fixed at creation.
type Ticket struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	DrawingID       primitive.ObjectID `bson:"drawingId" json:"drawingId"`
	MainNumbers     []int              `bson:"mainNumbers" json:"mainNumbers"`
	WorldNumbers    []int              `bson:"worldNumbers" json:"worldNumbers"`
	Cost            float64            `bson:"cost" json:"cost"`
	IsQuicktipp     bool               `bson:"isQuicktipp" json:"isQuicktipp"`
	IsWinner        bool               `bson:"isWinner" json:"isWinner"`
	WinningClass    int                `bson:"winningClass,omitempty" json:"winningClass,omitempty"` // 1..12, 0 = no win
	WinningAmount   float64            `bson:"winningAmount,omitempty" json:"winningAmount,omitempty"`
	JackpotApproval ApprovalStatus     `bson:"jackpotApproval,omitempty" json:"jackpotApproval,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Deleted         bool               `bson:"deleted" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Credited reports whether this ticket's winnings have been paid to the
// user's balance. Class 1 pays only after explicit admin approval.
func (t *Ticket) Credited() bool {
	if !t.IsWinner {
		return false
	}
	if t.WinningClass == 1 {
		return t.JackpotApproval == ApprovalApproved
	}
	return true
}
