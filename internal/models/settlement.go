package models

// ClassPayout describes the settled outcome of one prize class.
type ClassPayout struct {
	Class        int     `json:"class"`
	WinnersCount int     `json:"winnersCount"`
	PerWinner    float64 `json:"perWinner"`
	TotalPayout  float64 `json:"totalPayout"`
	// Degraded marks a payout where the reserve could not cover the
	// configured minimum prize and winners were paid a reduced amount.
	Degraded bool `json:"degraded,omitempty"`
}

// SettlementResult is the full output of the payout engine for one drawing.
type SettlementResult struct {
	PayoutsByClass map[int]ClassPayout `json:"payoutsByClass"`
	PoolBase       float64             `json:"poolBase"`
	PoolForClasses float64             `json:"poolForClasses"`
	ReserveAdded   float64             `json:"reserveAdded"`
	NewReserveFund float64             `json:"newReserveFund"`
	NewJackpot     float64             `json:"newJackpot"`
	JackpotWon     bool                `json:"jackpotWon"`
	TotalPayout    float64             `json:"totalPayout"`
}

// WinnersByClass returns the per-class winner counts of this settlement.
func (r *SettlementResult) WinnersByClass() map[int]int {
	counts := make(map[int]int, len(r.PayoutsByClass))
	for class, payout := range r.PayoutsByClass {
		if payout.WinnersCount > 0 {
			counts[class] = payout.WinnersCount
		}
	}
	return counts
}

// DrawingPreview is the result of a read-only dry run of the selector,
// classifier and payout estimate. It never mutates stored state.
type DrawingPreview struct {
	SuggestedMainNumbers  []int             `json:"suggestedMainNumbers"`
	SuggestedWorldNumbers []int             `json:"suggestedWorldNumbers"`
	WinnerPreview         map[int]int       `json:"winnerPreview"`
	EstimatedPayout       float64           `json:"estimatedPayout"`
	MainFrequencies       map[int]int       `json:"mainFrequencies"`
	WorldFrequencies      map[int]int       `json:"worldFrequencies"`
	TicketCount           int               `json:"ticketCount"`
	Estimate              *SettlementResult `json:"estimate,omitempty"`
}
