package models

import "time"

// JackpotStatus is the public view of the current jackpot. CarriedOver is
// the amount rolled into the current drawing from its predecessor; zero
// for the very first drawing.
type JackpotStatus struct {
	CurrentAmount   float64   `json:"currentAmount"`
	ReserveFund     float64   `json:"reserveFund"`
	TicketsSold     int64     `json:"ticketsSold"`
	CarriedOver     float64   `json:"carriedOver,omitempty"`
	NextDrawingDate time.Time `json:"nextDrawingDate,omitempty"`
	LastWinAmount   float64   `json:"lastWinAmount,omitempty"`
	LastWinDate     time.Time `json:"lastWinDate,omitempty"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}
