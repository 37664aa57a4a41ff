package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottohaus/worldlotto-backend/internal/models"
)

func newTestEngine() *PayoutEngine {
	return NewPayoutEngine(models.DefaultPrizeClassTable(), DefaultPayoutParams())
}

func TestSettleNoWinnersFeedsReserveAndJackpot(t *testing.T) {
	engine := newTestEngine()

	// 1000 tickets at 2 EUR, 50% payout rate: poolBase 1000.
	result := engine.Settle(1000, map[int]int{}, 500000, 100)

	assert.InDelta(t, 1000.0, result.PoolBase, 1e-9)
	assert.InDelta(t, 950.0, result.PoolForClasses, 1e-9)
	assert.InDelta(t, 50.0, result.ReserveAdded, 1e-9)
	assert.Zero(t, result.TotalPayout)
	assert.False(t, result.JackpotWon)

	// Class 1 budget is 36% of the class pool and goes to the jackpot.
	assert.InDelta(t, 500000+950*0.36, result.NewJackpot, 1e-9)

	// Everything that is not jackpot budget ends up in the reserve:
	// prior reserve + reserve addition + all unclaimed class budgets.
	assert.InDelta(t, 100+50+950*0.64, result.NewReserveFund, 1e-9)
}

func TestSettleBudgetConservation(t *testing.T) {
	engine := newTestEngine()
	table := models.DefaultPrizeClassTable()

	sum := 0.0
	for _, cfg := range table {
		sum += cfg.Percentage
	}
	require.InDelta(t, 100.0, sum, 1e-9, "prize percentages must sum to 100")

	priorJackpot := 2000000.0
	priorReserve := 50000.0
	winners := map[int]int{5: 3, 9: 40, 10: 120, 11: 80, 12: 200}
	result := engine.Settle(500000, winners, priorJackpot, priorReserve)

	// Money never appears from nowhere: what leaves (payouts, new reserve,
	// new jackpot) equals what entered (pool, prior jackpot, prior reserve).
	in := result.PoolBase + priorJackpot + priorReserve
	out := result.TotalPayout + result.NewReserveFund + result.NewJackpot
	assert.InDelta(t, in, out, 1e-6)
}

func TestSettleMinimumPrizeBackedByReserve(t *testing.T) {
	engine := newTestEngine()

	// One ticket: the class 12 budget is far below the 8 EUR minimum, but
	// the reserve covers the difference.
	result := engine.Settle(1, map[int]int{12: 1}, 0, 100)

	payout := result.PayoutsByClass[12]
	assert.Equal(t, 1, payout.WinnersCount)
	assert.InDelta(t, 8.0, payout.PerWinner, 1e-9)
	assert.False(t, payout.Degraded)

	// The reserve gains the cut and the unwon class budgets, then pays
	// exactly the shortfall between the class 12 budget and the minimum.
	table := models.DefaultPrizeClassTable()
	unwonBudgets := 0.0
	for class := 2; class <= 11; class++ {
		unwonBudgets += result.PoolForClasses * table[class].Percentage / 100
	}
	shortfall := 8.0 - result.PoolForClasses*table[12].Percentage/100
	assert.InDelta(t, 100+result.ReserveAdded+unwonBudgets-shortfall, result.NewReserveFund, 1e-9)
}

func TestSettleDegradedWhenReserveInsufficient(t *testing.T) {
	engine := newTestEngine()

	// No sales, no reserve, but a class 12 winner exists. The guarantee
	// cannot be honored; the payout degrades instead of going negative.
	result := engine.Settle(0, map[int]int{12: 1}, 0, 0)

	payout := result.PayoutsByClass[12]
	assert.True(t, payout.Degraded)
	assert.Less(t, payout.PerWinner, 8.0)
	assert.GreaterOrEqual(t, result.NewReserveFund, 0.0)
}

func TestSettlePerClassCap(t *testing.T) {
	engine := newTestEngine()

	// Enormous pool, single class 2 winner: the raw budget exceeds the
	// 5M cap, the winner gets exactly the cap and the surplus stays in
	// the reserve.
	result := engine.Settle(100000000, map[int]int{2: 1}, 0, 0)

	payout := result.PayoutsByClass[2]
	assert.InDelta(t, 5000000.0, payout.PerWinner, 1e-6)
	assert.False(t, payout.Degraded)
	assert.Greater(t, result.NewReserveFund, result.ReserveAdded,
		"capped surplus must flow into the reserve")
}

func TestSettleJackpotWinSplitsAndResets(t *testing.T) {
	engine := newTestEngine()

	priorJackpot := 10000000.0
	result := engine.Settle(1000, map[int]int{1: 2}, priorJackpot, 0)

	payout := result.PayoutsByClass[1]
	require.True(t, result.JackpotWon)
	assert.Equal(t, 2, payout.WinnersCount)

	// The paid jackpot is the prior amount plus this round's class 1
	// budget, split evenly.
	expectedTotal := priorJackpot + 950.0*0.36
	assert.InDelta(t, expectedTotal, payout.TotalPayout, 1e-6)
	assert.InDelta(t, expectedTotal/2, payout.PerWinner, 1e-6)
	assert.Zero(t, result.NewJackpot)
}

func TestSettleJackpotRolloverAndCap(t *testing.T) {
	params := DefaultPayoutParams()
	params.JackpotCap = 1000000
	engine := NewPayoutEngine(models.DefaultPrizeClassTable(), params)

	result := engine.Settle(1000000, map[int]int{}, 999999, 0)

	assert.False(t, result.JackpotWon)
	assert.InDelta(t, 1000000.0, result.NewJackpot, 1e-9, "carry-over must clamp at the cap")
}

func TestSettleZeroWinnersClassBudgetGoesToReserve(t *testing.T) {
	engine := newTestEngine()

	// Winners only in class 12; every other non-jackpot class budget is
	// unclaimed and must flow into the reserve.
	result := engine.Settle(10000, map[int]int{12: 10}, 0, 0)

	for class := 2; class <= 11; class++ {
		assert.Zero(t, result.PayoutsByClass[class].TotalPayout, "class %d", class)
	}
	assert.Greater(t, result.NewReserveFund, result.ReserveAdded)
}
