package services

import (
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"golang.org/x/exp/slog"
)

// PayoutParams are the economic constants of one settlement.
type PayoutParams struct {
	TicketPrice       float64
	PayoutRate        float64
	ReservePercentage float64
	JackpotCap        float64
}

// DefaultPayoutParams returns the standard game economics: 2 EUR tickets,
// half of sales paid out, 5% of the pool to the reserve, and a jackpot cap
// that is effectively unreachable but still enforced.
func DefaultPayoutParams() PayoutParams {
	return PayoutParams{
		TicketPrice:       2,
		PayoutRate:        0.5,
		ReservePercentage: 0.05,
		JackpotCap:        1e11,
	}
}

// PayoutEngine apportions one drawing's prize pool across the 12 classes
// under minimum-prize guarantees, per-class caps, the reserve fund and the
// jackpot carry-over. All amounts are EUR as float64; intermediate math
// keeps fractional precision.
type PayoutEngine struct {
	table  models.PrizeClassTable
	params PayoutParams
}

// NewPayoutEngine creates an engine over a prize class table.
func NewPayoutEngine(table models.PrizeClassTable, params PayoutParams) *PayoutEngine {
	return &PayoutEngine{table: table, params: params}
}

// Params returns the engine's economic constants.
func (e *PayoutEngine) Params() PayoutParams { return e.params }

// Settle computes the payouts for one drawing given its ticket count, the
// per-class winner counts, the jackpot carried into the drawing, and the
// reserve fund before settlement.
//
// Budget conservation: rawBudget(1..12) + reserveAddition equals poolBase
// within floating tolerance, and no more money leaves the engine than
// poolBase + priorJackpot + reserveFund.
func (e *PayoutEngine) Settle(ticketCount int, winnersByClass map[int]int, priorJackpot, reserveFund float64) *models.SettlementResult {
	poolBase := float64(ticketCount) * e.params.TicketPrice * e.params.PayoutRate
	poolForClasses := poolBase * (1 - e.params.ReservePercentage)
	reserveAddition := poolBase * e.params.ReservePercentage
	reserve := reserveFund + reserveAddition

	rawBudget := make(map[int]float64, len(e.table))
	for class, cfg := range e.table {
		rawBudget[class] = poolForClasses * (cfg.Percentage / 100)
	}

	// Class 1's budget feeds the jackpot instead of being paid from the
	// round's pool.
	jackpotCurrent := priorJackpot + rawBudget[1]

	result := &models.SettlementResult{
		PayoutsByClass: make(map[int]models.ClassPayout, len(e.table)),
		PoolBase:       poolBase,
		PoolForClasses: poolForClasses,
		ReserveAdded:   reserveAddition,
	}

	for class := 2; class <= 12; class++ {
		cfg := e.table[class]
		winners := winnersByClass[class]
		budget := rawBudget[class]

		if winners == 0 {
			reserve += budget
			result.PayoutsByClass[class] = models.ClassPayout{Class: class}
			continue
		}

		base := budget / float64(winners)
		perWinner := base
		if perWinner < cfg.MinPrize {
			perWinner = cfg.MinPrize
		}
		if cfg.Cap != nil && perWinner > *cfg.Cap {
			perWinner = *cfg.Cap
		}
		needed := perWinner * float64(winners)
		degraded := false

		switch {
		case needed <= budget:
			reserve += budget - needed
		case reserve >= needed-budget:
			reserve -= needed - budget
		default:
			// Reserve cannot back the minimum-prize guarantee. Pay out
			// everything available at a reduced per-winner amount. This is
			// a payout-integrity event and must stay observable.
			available := budget + reserve
			perWinner = available / float64(winners)
			needed = available
			reserve = 0
			degraded = true
			slog.Warn("degraded payout: reserve insufficient for minimum prize",
				"class", class, "winners", winners, "perWinner", perWinner, "minPrize", cfg.MinPrize)
		}

		result.PayoutsByClass[class] = models.ClassPayout{
			Class:        class,
			WinnersCount: winners,
			PerWinner:    perWinner,
			TotalPayout:  needed,
			Degraded:     degraded,
		}
		result.TotalPayout += needed
	}

	// Class 1: the accumulated jackpot is either paid out in full, split
	// evenly, or carried forward unpaid.
	jackpotWinners := winnersByClass[1]
	if jackpotWinners > 0 {
		perWinner := jackpotCurrent / float64(jackpotWinners)
		result.PayoutsByClass[1] = models.ClassPayout{
			Class:        1,
			WinnersCount: jackpotWinners,
			PerWinner:    perWinner,
			TotalPayout:  jackpotCurrent,
		}
		result.TotalPayout += jackpotCurrent
		result.JackpotWon = true
		result.NewJackpot = 0
	} else {
		result.PayoutsByClass[1] = models.ClassPayout{Class: 1}
		result.NewJackpot = jackpotCurrent
	}

	if result.NewJackpot > e.params.JackpotCap {
		result.NewJackpot = e.params.JackpotCap
	}

	result.NewReserveFund = reserve
	return result
}
