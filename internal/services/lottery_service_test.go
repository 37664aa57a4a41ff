package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
	"github.com/lottohaus/worldlotto-backend/pkg/paymentgateway"
)

type lotteryFixture struct {
	svc      *LotteryServiceImpl
	tickets  repositories.TicketRepository
	drawings repositories.DrawingRepository
	users    repositories.UserRepository
	coupons  repositories.CouponRepository
	state    repositories.SystemStateRepository
	txs      repositories.TransactionRepository
	now      time.Time
}

func testLotteryConfig() config.LotteryConfig {
	return config.LotteryConfig{
		TicketPrice:        2,
		PayoutRate:         0.5,
		ReservePercentage:  0.05,
		JackpotFloor:       1000000,
		JackpotCap:         1e11,
		SalesCutoffMinutes: 60,
		DrawHour:           20,
	}
}

func newLotteryFixture(t *testing.T) *lotteryFixture {
	t.Helper()

	f := &lotteryFixture{
		tickets:  memory.NewTicketRepository(),
		drawings: memory.NewDrawingRepository(),
		users:    memory.NewUserRepository(),
		coupons:  memory.NewCouponRepository(),
		state:    memory.NewSystemStateRepository(),
		txs:      memory.NewTransactionRepository(),
		// Monday morning: the next drawing lands on Tuesday 20:00 UTC.
		now: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	cfg := testLotteryConfig()
	f.svc = NewLotteryService(
		f.tickets, f.drawings, f.users, f.coupons, f.state,
		f.txs, memory.NewEventRepository(), memory.NewJackpotRolloverRepository(),
		NewNumberSelector(1),
		NewPayoutEngine(models.DefaultPrizeClassTable(), PayoutParams{
			TicketPrice:       cfg.TicketPrice,
			PayoutRate:        cfg.PayoutRate,
			ReservePercentage: cfg.ReservePercentage,
			JackpotCap:        cfg.JackpotCap,
		}),
		paymentgateway.NewMockGateway(),
		cfg,
	)
	f.svc.now = func() time.Time { return f.now }

	_, err := f.svc.EnsureActiveDrawing(context.Background())
	require.NoError(t, err)
	return f
}

func (f *lotteryFixture) newUser(t *testing.T, balance float64) *models.User {
	t.Helper()
	user := &models.User{
		Email:   primitive.NewObjectID().Hex() + "@example.com",
		Name:    "Test User",
		Role:    models.RoleUser,
		Balance: balance,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *lotteryFixture) balance(t *testing.T, id primitive.ObjectID) float64 {
	t.Helper()
	user, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return user.Balance
}

func TestEnsureActiveDrawingSeedsJackpotFloor(t *testing.T) {
	f := newLotteryFixture(t)

	drawing, err := f.svc.CurrentDrawing(context.Background())
	require.NoError(t, err)
	assert.True(t, drawing.IsActive)
	assert.False(t, drawing.Drawn())
	assert.Equal(t, 1000000.0, drawing.JackpotAmount)
	assert.Equal(t, time.Tuesday, drawing.Date.Weekday())
	assert.Equal(t, 20, drawing.Date.Hour())
}

func TestCreateTicketDebitsBalanceAndSortsNumbers(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 10)

	ticket, err := f.svc.CreateTicket(context.Background(), user.ID, []int{50, 1, 23, 7, 11}, []int{12, 3}, "")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 7, 11, 23, 50}, ticket.MainNumbers)
	assert.Equal(t, []int{3, 12}, ticket.WorldNumbers)
	assert.Equal(t, 2.0, ticket.Cost)
	assert.Equal(t, 8.0, f.balance(t, user.ID))

	txs, err := f.txs.FindByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.SourceTicketPurchase, txs[0].Source)
	assert.Equal(t, -2.0, txs[0].Amount)
}

func TestCreateTicketRejectsInvalidPicks(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 10)
	ctx := context.Background()

	cases := []struct {
		name  string
		main  []int
		world []int
	}{
		{"too few main", []int{1, 2, 3, 4}, []int{1, 2}},
		{"duplicate main", []int{1, 1, 2, 3, 4}, []int{1, 2}},
		{"main out of range", []int{1, 2, 3, 4, 51}, []int{1, 2}},
		{"world out of range", []int{1, 2, 3, 4, 5}, []int{1, 13}},
		{"duplicate world", []int{1, 2, 3, 4, 5}, []int{2, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateTicket(ctx, user.ID, tc.main, tc.world, "")
			assert.ErrorIs(t, err, ErrInvalidNumbers)
		})
	}
	assert.Equal(t, 10.0, f.balance(t, user.ID), "failed purchases must not touch the balance")
}

func TestCreateTicketInsufficientBalance(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 1)

	_, err := f.svc.CreateTicket(context.Background(), user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCreateTicketSalesCutoff(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 10)
	ctx := context.Background()

	drawing, err := f.svc.CurrentDrawing(ctx)
	require.NoError(t, err)

	// Move inside the 60-minute cutoff window.
	f.now = drawing.Date.Add(-30 * time.Minute)
	_, err = f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	assert.ErrorIs(t, err, ErrSalesClosed)

	// Exempt users may still purchase.
	settings, err := f.state.GetSettings(ctx)
	require.NoError(t, err)
	settings.CutoffExemptUsers = []primitive.ObjectID{user.ID}
	require.NoError(t, f.state.UpdateSettings(ctx, settings))

	_, err = f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	assert.NoError(t, err)
}

func TestCreateTicketManualSalesStop(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 10)
	ctx := context.Background()

	settings, err := f.state.GetSettings(ctx)
	require.NoError(t, err)
	settings.ManualSalesStop = true
	require.NoError(t, f.state.UpdateSettings(ctx, settings))

	_, err = f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	assert.ErrorIs(t, err, ErrSalesClosed)
}

func TestCreateMultipleTicketsQuicktipp(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 20)

	tickets, err := f.svc.CreateMultipleTickets(context.Background(), user.ID, nil, nil, 5, true, "")
	require.NoError(t, err)
	require.Len(t, tickets, 5)

	for _, ticket := range tickets {
		assert.True(t, ticket.IsQuicktipp)
		assert.Len(t, ticket.MainNumbers, MainNumberCount)
		assert.Len(t, ticket.WorldNumbers, WorldNumberCount)
	}
	assert.Equal(t, 10.0, f.balance(t, user.ID))
}

func TestCreateTicketWithPercentageCoupon(t *testing.T) {
	f := newLotteryFixture(t)
	user := f.newUser(t, 10)
	ctx := context.Background()

	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{
		Code:         "HALF",
		DiscountType: models.DiscountPercentage,
		Value:        50,
		IsActive:     true,
	}))

	ticket, err := f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "half")
	require.NoError(t, err)
	assert.Equal(t, 1.0, ticket.Cost)
	assert.Equal(t, 9.0, f.balance(t, user.ID))

	coupon, err := f.coupons.FindByCode(ctx, "HALF")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)
}

func TestPerformDrawingCreditsWinnersAndRollsOver(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.SetReserveFund(ctx, 1000))

	winner := f.newUser(t, 100)
	loser := f.newUser(t, 100)

	// 3 main matches and 1 world match against the manual numbers: class 9.
	_, err := f.svc.CreateTicket(ctx, winner.ID, []int{1, 2, 3, 40, 41}, []int{1, 10}, "")
	require.NoError(t, err)
	_, err = f.svc.CreateTicket(ctx, loser.ID, []int{30, 31, 32, 33, 34}, []int{10, 11}, "")
	require.NoError(t, err)

	settled, err := f.svc.PerformDrawing(ctx, []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, settled.MainNumbers)
	assert.Equal(t, []int{1, 2}, settled.WorldNumbers)
	assert.False(t, settled.IsActive)
	assert.Equal(t, map[int]int{9: 1}, settled.WinnersByClass)

	// Class 9 pays its 25 EUR minimum, backed by the reserve.
	assert.Equal(t, 100.0-2+25, f.balance(t, winner.ID))
	assert.Equal(t, 98.0, f.balance(t, loser.ID))
	assert.InDelta(t, 25.0, settled.TotalWinningsPayout, 1e-9)

	// A fresh active drawing exists, carrying the rolled-over jackpot:
	// the prior jackpot plus this round's class 1 budget (2 tickets,
	// poolBase 2, 36% of the 95% class pool).
	next, err := f.svc.CurrentDrawing(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, settled.ID, next.ID)
	assert.True(t, next.Date.After(settled.Date))
	assert.InDelta(t, 1000000+2*0.95*0.36, next.JackpotAmount, 1e-9)
	assert.Equal(t, next.JackpotAmount, settled.NextJackpotAmount)
}

func TestJackpotStatusAndRolloverHistory(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()

	user := f.newUser(t, 100)
	_, err := f.svc.CreateMultipleTickets(ctx, user.ID, nil, nil, 3, true, "")
	require.NoError(t, err)

	status, err := f.svc.JackpotStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.TicketsSold)
	assert.Zero(t, status.CarriedOver, "no settled drawing yet")

	history, err := f.svc.RolloverHistory(ctx, f.now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Empty(t, history)

	settled, err := f.svc.PerformDrawing(ctx, []int{46, 47, 48, 49, 50}, []int{11, 12})
	require.NoError(t, err)

	history, err = f.svc.RolloverHistory(ctx, f.now.AddDate(0, 0, -90))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, settled.ID, history[0].SourceDrawingID)
	assert.False(t, history[0].JackpotWon)
	assert.InDelta(t, settled.NextJackpotAmount, history[0].RolloverAmount, 1e-9)

	status, err = f.svc.JackpotStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.TicketsSold, "new drawing starts without tickets")
	assert.InDelta(t, history[0].RolloverAmount, status.CarriedOver, 1e-9)
	assert.InDelta(t, status.CurrentAmount, status.CarriedOver, 1e-9)
}

func TestPerformDrawingRejectsInvalidManualNumbers(t *testing.T) {
	f := newLotteryFixture(t)

	_, err := f.svc.PerformDrawing(context.Background(), []int{1, 2, 3, 4, 4}, []int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidNumbers)

	drawing, err := f.svc.CurrentDrawing(context.Background())
	require.NoError(t, err)
	assert.False(t, drawing.Drawn(), "a failed drawing must not mutate state")
}

func TestPerformDrawingCannotSettleTwice(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()

	first, err := f.svc.PerformDrawing(ctx, nil, nil)
	require.NoError(t, err)

	// The successor drawing is active but not yet due; settling it again
	// immediately is fine, but the settled one must stay settled.
	second, err := f.svc.PerformDrawing(ctx, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	reloaded, err := f.svc.GetDrawing(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.MainNumbers, reloaded.MainNumbers)
}

func TestJackpotWinRequiresApproval(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	admin := f.newUser(t, 0)

	winner := f.newUser(t, 100)
	ticket, err := f.svc.CreateTicket(ctx, winner.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	require.NoError(t, err)

	settled, err := f.svc.PerformDrawing(ctx, []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1}, settled.WinnersByClass)
	assert.Zero(t, settled.TotalWinningsPayout, "pending jackpot must not count as paid out")

	// Nothing credited until approval.
	assert.Equal(t, 98.0, f.balance(t, winner.ID))

	pending, err := f.svc.PendingJackpotWinners(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ticket.ID, pending[0].ID)
	assert.Equal(t, models.ApprovalPending, pending[0].JackpotApproval)

	// The jackpot pays whole euros: floor(1000000 + class 1 budget).
	assert.Equal(t, 1000000.0, pending[0].WinningAmount)

	approved, err := f.svc.ApproveJackpotWinner(ctx, ticket.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, approved.JackpotApproval)
	assert.Equal(t, 98.0+1000000, f.balance(t, winner.ID))

	reloaded, err := f.svc.GetDrawing(ctx, settled.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, reloaded.TotalWinningsPayout)

	// A decided ticket cannot be decided again.
	_, err = f.svc.ApproveJackpotWinner(ctx, ticket.ID, admin.ID)
	assert.ErrorIs(t, err, ErrNotPendingJackpot)

	// The next jackpot reset to the floor because class 1 was won.
	next, err := f.svc.CurrentDrawing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, next.JackpotAmount)
}

func TestJackpotWinRejection(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	admin := f.newUser(t, 0)

	winner := f.newUser(t, 100)
	ticket, err := f.svc.CreateTicket(ctx, winner.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	require.NoError(t, err)

	settled, err := f.svc.PerformDrawing(ctx, []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)

	rejected, err := f.svc.RejectJackpotWinner(ctx, ticket.ID, admin.ID, "fraud suspected")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, rejected.JackpotApproval)
	assert.False(t, rejected.IsWinner)
	assert.Zero(t, rejected.WinningAmount)
	assert.Equal(t, "fraud suspected", rejected.RejectionReason)
	assert.Equal(t, 98.0, f.balance(t, winner.ID))

	// The drawing's winner statistics no longer count the rejected win.
	reloaded, err := f.svc.GetDrawing(ctx, settled.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.WinnersByClass)
}

func TestDeleteTicketReversesCreditedWinningsOnce(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.SetReserveFund(ctx, 1000))

	user := f.newUser(t, 100)
	ticket, err := f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 40, 41}, []int{1, 10}, "")
	require.NoError(t, err)

	settled, err := f.svc.PerformDrawing(ctx, []int{1, 2, 3, 4, 5}, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 123.0, f.balance(t, user.ID))

	deleted, err := f.svc.DeleteTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 98.0, f.balance(t, user.ID), "winnings must be reversed exactly once")

	// Deletion is idempotent: the second call reports false and does not
	// touch the balance again.
	deleted, err = f.svc.DeleteTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 98.0, f.balance(t, user.ID))

	// The settled drawing's statistics were rebuilt without the ticket.
	reloaded, err := f.svc.GetDrawing(ctx, settled.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.WinnersByClass)
	assert.Zero(t, reloaded.TotalWinningsPayout)
}

func TestDeleteTicketWithoutWinningsKeepsBalance(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	user := f.newUser(t, 100)

	ticket, err := f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	require.NoError(t, err)

	deleted, err := f.svc.DeleteTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	// No winnings were credited, so nothing is reversed. The ticket price
	// is not refunded.
	assert.Equal(t, 98.0, f.balance(t, user.ID))

	mine, err := f.svc.TicketsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteUnknownTicketReportsFalse(t *testing.T) {
	f := newLotteryFixture(t)

	deleted, err := f.svc.DeleteTicket(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPreviewDrawingDoesNotMutateState(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.SetReserveFund(ctx, 500))

	user := f.newUser(t, 100)
	_, err := f.svc.CreateTicket(ctx, user.ID, []int{1, 2, 3, 4, 5}, []int{1, 2}, "")
	require.NoError(t, err)

	preview, err := f.svc.PreviewDrawing(ctx, true)
	require.NoError(t, err)
	assert.Len(t, preview.SuggestedMainNumbers, MainNumberCount)
	assert.Len(t, preview.SuggestedWorldNumbers, WorldNumberCount)
	assert.Equal(t, 1, preview.TicketCount)
	assert.Equal(t, 1, preview.MainFrequencies[1])

	// The drawing is untouched and the reserve unchanged.
	drawing, err := f.svc.CurrentDrawing(ctx)
	require.NoError(t, err)
	assert.True(t, drawing.IsActive)
	assert.False(t, drawing.Drawn())

	reserve, err := f.svc.ReserveFund(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500.0, reserve)

	assert.Equal(t, 98.0, f.balance(t, user.ID))
}

func TestPreviewDrawingConcurrentWithQuicktippPurchases(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()
	user := f.newUser(t, 10000)

	// Previews run outside the drawing lock but share the selector's rng
	// with quicktipp purchases. Exercised under the race detector.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateMultipleTickets(ctx, user.ID, nil, nil, 5, true, "")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.svc.PreviewDrawing(ctx, false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tickets, err := f.svc.TicketsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 50)
	assert.Equal(t, 10000-50*2.0, f.balance(t, user.ID))
}

func TestReserveFundAccessors(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.SetReserveFund(ctx, -1), ErrInvalidAmount)
	assert.ErrorIs(t, f.svc.AddToReserveFund(ctx, 0), ErrInvalidAmount)
	assert.ErrorIs(t, f.svc.AddToReserveFund(ctx, -5), ErrInvalidAmount)

	require.NoError(t, f.svc.SetReserveFund(ctx, 100))
	require.NoError(t, f.svc.AddToReserveFund(ctx, 50))

	reserve, err := f.svc.ReserveFund(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150.0, reserve)
}

func TestSetSimulatedJackpotKeepsRealJackpot(t *testing.T) {
	f := newLotteryFixture(t)
	ctx := context.Background()

	drawing, err := f.svc.SetSimulatedJackpot(ctx, 5000000)
	require.NoError(t, err)
	assert.Equal(t, 5000000.0, drawing.SimulatedJackpot)
	assert.Equal(t, 5000000.0, drawing.JackpotAmount)
	assert.Equal(t, 1000000.0, drawing.RealJackpot)

	_, err = f.svc.SetSimulatedJackpot(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
