package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"github.com/lottohaus/worldlotto-backend/internal/utils"
	"github.com/lottohaus/worldlotto-backend/pkg/paymentgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LotteryServiceImpl implements LotteryService
var _ LotteryService = (*LotteryServiceImpl)(nil)

// LotteryServiceImpl orchestrates the drawing lifecycle, the ticket ledger
// and the jackpot approval workflow. A single mutex serializes ticket
// purchase, ticket deletion and settlement because they all
// read-modify-write the active drawing and the reserve fund.
type LotteryServiceImpl struct {
	mu sync.Mutex

	ticketRepo   repositories.TicketRepository
	drawingRepo  repositories.DrawingRepository
	userRepo     repositories.UserRepository
	couponRepo   repositories.CouponRepository
	stateRepo    repositories.SystemStateRepository
	txRepo       repositories.TransactionRepository
	eventRepo    repositories.EventRepository
	rolloverRepo repositories.JackpotRolloverRepository

	selector *NumberSelector
	engine   *PayoutEngine
	payments paymentgateway.Gateway
	cfg      config.LotteryConfig

	now func() time.Time
}

// NewLotteryService creates a LotteryServiceImpl.
func NewLotteryService(
	ticketRepo repositories.TicketRepository,
	drawingRepo repositories.DrawingRepository,
	userRepo repositories.UserRepository,
	couponRepo repositories.CouponRepository,
	stateRepo repositories.SystemStateRepository,
	txRepo repositories.TransactionRepository,
	eventRepo repositories.EventRepository,
	rolloverRepo repositories.JackpotRolloverRepository,
	selector *NumberSelector,
	engine *PayoutEngine,
	payments paymentgateway.Gateway,
	cfg config.LotteryConfig,
) *LotteryServiceImpl {
	return &LotteryServiceImpl{
		ticketRepo:   ticketRepo,
		drawingRepo:  drawingRepo,
		userRepo:     userRepo,
		couponRepo:   couponRepo,
		stateRepo:    stateRepo,
		txRepo:       txRepo,
		eventRepo:    eventRepo,
		rolloverRepo: rolloverRepo,
		selector:     selector,
		engine:       engine,
		payments:     payments,
		cfg:          cfg,
		now:          time.Now,
	}
}

// --- Drawing queries ---

// CurrentDrawing returns the active drawing accepting ticket sales.
func (s *LotteryServiceImpl) CurrentDrawing(ctx context.Context) (*models.Drawing, error) {
	drawing, err := s.drawingRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveDrawing
		}
		return nil, fmt.Errorf("failed to find active drawing: %w", err)
	}
	return drawing, nil
}

// LatestCompletedDrawing returns the most recently settled drawing.
func (s *LotteryServiceImpl) LatestCompletedDrawing(ctx context.Context) (*models.Drawing, error) {
	drawing, err := s.drawingRepo.FindLatestCompleted(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, fmt.Errorf("failed to find latest completed drawing: %w", err)
	}
	return drawing, nil
}

// GetDrawing returns a drawing by ID.
func (s *LotteryServiceImpl) GetDrawing(ctx context.Context, id primitive.ObjectID) (*models.Drawing, error) {
	drawing, err := s.drawingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, fmt.Errorf("failed to find drawing: %w", err)
	}
	return drawing, nil
}

// ListDrawings returns all drawings, newest first.
func (s *LotteryServiceImpl) ListDrawings(ctx context.Context) ([]*models.Drawing, error) {
	return s.drawingRepo.FindAll(ctx)
}

// EnsureActiveDrawing creates the initial active drawing when none exists,
// seeded with the jackpot floor. Called at startup.
func (s *LotteryServiceImpl) EnsureActiveDrawing(ctx context.Context) (*models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawing, err := s.drawingRepo.FindActive(ctx)
	if err == nil {
		return drawing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up active drawing: %w", err)
	}

	drawing = &models.Drawing{
		Date:             utils.NextDrawTime(s.now(), s.cfg.DrawHour),
		MainNumbers:      []int{},
		WorldNumbers:     []int{},
		JackpotAmount:    s.cfg.JackpotFloor,
		RealJackpot:      s.cfg.JackpotFloor,
		SimulatedJackpot: s.cfg.JackpotFloor,
		IsActive:         true,
	}
	if err := s.drawingRepo.Create(ctx, drawing); err != nil {
		return nil, fmt.Errorf("failed to create initial drawing: %w", err)
	}
	slog.Info("Created initial drawing", "drawingId", drawing.ID, "date", drawing.Date, "jackpot", drawing.JackpotAmount)
	return drawing, nil
}

// JackpotStatus returns the public view of the current jackpot.
func (s *LotteryServiceImpl) JackpotStatus(ctx context.Context) (*models.JackpotStatus, error) {
	drawing, err := s.CurrentDrawing(ctx)
	if err != nil {
		return nil, err
	}
	reserve, err := s.stateRepo.GetReserveFund(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserve fund: %w", err)
	}
	sold, err := s.ticketRepo.CountByDrawing(ctx, drawing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	status := &models.JackpotStatus{
		CurrentAmount:   drawing.JackpotAmount,
		ReserveFund:     reserve,
		TicketsSold:     sold,
		NextDrawingDate: drawing.Date,
		LastUpdatedAt:   drawing.UpdatedAt,
	}
	if latest, err := s.drawingRepo.FindLatestCompleted(ctx); err == nil {
		if latest.WinnersByClass[1] > 0 {
			status.LastWinAmount = latest.JackpotAmount
			status.LastWinDate = latest.Date
		}
		if rollover, err := s.rolloverRepo.FindBySourceDrawing(ctx, latest.ID); err == nil {
			status.CarriedOver = rollover.RolloverAmount
		}
	}
	return status, nil
}

// RolloverHistory lists the jackpot carry-overs recorded at or after the
// given time, newest first.
func (s *LotteryServiceImpl) RolloverHistory(ctx context.Context, since time.Time) ([]*models.JackpotRollover, error) {
	return s.rolloverRepo.FindSince(ctx, since)
}

// SetSimulatedJackpot overrides the displayed jackpot of the active
// drawing. The real (sales-derived) jackpot is untouched.
func (s *LotteryServiceImpl) SetSimulatedJackpot(ctx context.Context, amount float64) (*models.Drawing, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	drawing, err := s.CurrentDrawing(ctx)
	if err != nil {
		return nil, err
	}
	drawing.SimulatedJackpot = amount
	drawing.JackpotAmount = amount
	if err := s.drawingRepo.Update(ctx, drawing); err != nil {
		return nil, fmt.Errorf("failed to update drawing: %w", err)
	}
	return drawing, nil
}

// --- Ticket ledger ---

// CreateTicket purchases one ticket for the active drawing. The sales
// window, balance and number validity are checked before any state change.
func (s *LotteryServiceImpl) CreateTicket(ctx context.Context, userID primitive.ObjectID, mainNumbers, worldNumbers []int, couponCode string) (*models.Ticket, error) {
	tickets, err := s.CreateMultipleTickets(ctx, userID, mainNumbers, worldNumbers, 1, false, couponCode)
	if err != nil {
		return nil, err
	}
	return tickets[0], nil
}

// CreateMultipleTickets purchases quantity tickets in one transaction.
// With quicktipp, each ticket gets fresh random numbers; otherwise all
// tickets share the given pick.
func (s *LotteryServiceImpl) CreateMultipleTickets(ctx context.Context, userID primitive.ObjectID, mainNumbers, worldNumbers []int, quantity int, quicktipp bool, couponCode string) ([]*models.Ticket, error) {
	if quantity < 1 || quantity > 100 {
		return nil, fmt.Errorf("%w: quantity must be between 1 and 100", ErrInvalidAmount)
	}
	if !quicktipp {
		if err := utils.ValidateNumberPick(mainNumbers, MainNumberCount, MainNumberMax); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNumbers, err)
		}
		if err := utils.ValidateNumberPick(worldNumbers, WorldNumberCount, WorldNumberMax); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNumbers, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drawing, err := s.CurrentDrawing(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := s.checkSalesOpen(ctx, drawing, userID); err != nil {
		return nil, err
	}

	totalCost := s.cfg.TicketPrice * float64(quantity)
	var coupon *models.Coupon
	if couponCode != "" {
		coupon, err = s.redeemableCoupon(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		totalCost = coupon.Apply(totalCost)
	}
	if user.Balance < totalCost {
		return nil, ErrInsufficientBalance
	}

	perTicketCost := totalCost / float64(quantity)
	created := make([]*models.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		main, world := mainNumbers, worldNumbers
		if quicktipp {
			pick := s.selector.Select(DrawModeRandom, nil)
			main, world = pick.MainNumbers, pick.WorldNumbers
		}
		ticket := &models.Ticket{
			UserID:       userID,
			DrawingID:    drawing.ID,
			MainNumbers:  utils.SortedCopy(main),
			WorldNumbers: utils.SortedCopy(world),
			Cost:         perTicketCost,
			IsQuicktipp:  quicktipp,
		}
		if err := s.ticketRepo.Create(ctx, ticket); err != nil {
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}
		created = append(created, ticket)
	}

	if err := s.userRepo.IncrementBalance(ctx, userID, -totalCost); err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}
	_ = s.txRepo.Create(ctx, &models.BalanceTransaction{
		UserID: userID,
		Amount: -totalCost,
		Source: models.SourceTicketPurchase,
		Note:   fmt.Sprintf("%d ticket(s) for drawing %s", quantity, drawing.ID.Hex()),
	})
	if coupon != nil {
		coupon.UsedCount++
		if err := s.couponRepo.Update(ctx, coupon); err != nil {
			slog.Error("Failed to record coupon redemption", "error", err, "coupon", coupon.Code)
		}
	}

	slog.Info("Tickets purchased", "userId", userID, "drawingId", drawing.ID, "quantity", quantity, "cost", totalCost)
	return created, nil
}

// checkSalesOpen enforces the manual sales stop and the time-based cutoff,
// both overridable by the exemption list. Evaluated at call time.
func (s *LotteryServiceImpl) checkSalesOpen(ctx context.Context, drawing *models.Drawing, userID primitive.ObjectID) error {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.IsExempt(userID) {
		return nil
	}
	if settings.ManualSalesStop {
		return ErrSalesClosed
	}
	cutoff := drawing.SalesCutoffAt(time.Duration(s.cfg.SalesCutoffMinutes) * time.Minute)
	if s.now().After(cutoff) {
		return ErrSalesClosed
	}
	return nil
}

func (s *LotteryServiceImpl) redeemableCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if !coupon.Usable(s.now()) {
		return nil, ErrCouponNotUsable
	}
	return coupon, nil
}

// TicketsForUser returns the non-deleted tickets of a user.
func (s *LotteryServiceImpl) TicketsForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	return s.ticketRepo.FindByUser(ctx, userID)
}

// TicketsForDrawing returns the non-deleted tickets of a drawing.
func (s *LotteryServiceImpl) TicketsForDrawing(ctx context.Context, drawingID primitive.ObjectID) ([]*models.Ticket, error) {
	return s.ticketRepo.FindByDrawing(ctx, drawingID)
}

// DeleteTicket soft-deletes a ticket. If its winnings were already paid,
// the user's balance is debited by exactly the winning amount, once.
// Returns false without side effects when the ticket is absent or already
// deleted.
func (s *LotteryServiceImpl) DeleteTicket(ctx context.Context, ticketID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteTicketLocked(ctx, ticketID)
}

// DeleteMultipleTickets soft-deletes several tickets and reports how many
// were actually removed.
func (s *LotteryServiceImpl) DeleteMultipleTickets(ctx context.Context, ticketIDs []primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ticketIDs {
		ok, err := s.deleteTicketLocked(ctx, id)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

func (s *LotteryServiceImpl) deleteTicketLocked(ctx context.Context, ticketID primitive.ObjectID) (bool, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find ticket: %w", err)
	}
	if ticket.Deleted {
		return false, nil
	}

	credited := ticket.Credited()
	ticket.Deleted = true
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}

	if credited {
		if err := s.userRepo.IncrementBalance(ctx, ticket.UserID, -ticket.WinningAmount); err != nil {
			slog.Error("Failed to reverse winnings for deleted ticket", "error", err, "ticketId", ticketID)
		} else {
			_ = s.txRepo.Create(ctx, &models.BalanceTransaction{
				UserID:   ticket.UserID,
				Amount:   -ticket.WinningAmount,
				Source:   models.SourceReversal,
				TicketID: ticket.ID,
				Note:     "winnings reversed after ticket deletion",
			})
		}
	}
	_ = s.eventRepo.Create(ctx, &models.Event{
		Type:      models.EventTicketDeleted,
		DrawingID: ticket.DrawingID,
		TicketID:  ticket.ID,
		Message:   "ticket soft-deleted",
		Amount:    ticket.WinningAmount,
	})

	// Rebuild the aggregates of an already-settled drawing. Individual
	// payout amounts stay frozen at settlement time; deletion is an
	// administrative correction, not a re-draw.
	drawing, err := s.drawingRepo.FindByID(ctx, ticket.DrawingID)
	if err == nil && drawing.Drawn() {
		if err := s.recalculateLocked(ctx, drawing); err != nil {
			return true, err
		}
	}
	return true, nil
}

// RecalculateDrawingStatistics rebuilds winnersByClass and
// totalWinningsPayout of a settled drawing from its surviving tickets.
// The payout engine is deliberately not re-run.
func (s *LotteryServiceImpl) RecalculateDrawingStatistics(ctx context.Context, drawingID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawing, err := s.drawingRepo.FindByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDrawingNotFound
		}
		return fmt.Errorf("failed to find drawing: %w", err)
	}
	return s.recalculateLocked(ctx, drawing)
}

func (s *LotteryServiceImpl) recalculateLocked(ctx context.Context, drawing *models.Drawing) error {
	tickets, err := s.ticketRepo.FindByDrawing(ctx, drawing.ID)
	if err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}

	winners := make(map[int]int)
	totalPayout := 0.0
	for _, t := range tickets {
		if !t.IsWinner {
			continue
		}
		winners[t.WinningClass]++
		if t.Credited() {
			totalPayout += t.WinningAmount
		}
	}
	drawing.WinnersByClass = winners
	drawing.TotalWinningsPayout = totalPayout
	if err := s.drawingRepo.Update(ctx, drawing); err != nil {
		return fmt.Errorf("failed to update drawing statistics: %w", err)
	}
	return nil
}

// --- Drawing lifecycle ---

// PerformDrawing runs one full drawing cycle on the active drawing:
// number selection, classification, settlement, balance credits and the
// creation of the next active drawing. Manual numbers take precedence
// over the configured selection mode and are validated before any state
// change. The whole settlement runs as one logical transaction under the
// service mutex.
func (s *LotteryServiceImpl) PerformDrawing(ctx context.Context, manualMain, manualWorld []int) (*models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawing, err := s.CurrentDrawing(ctx)
	if err != nil {
		return nil, err
	}
	// Settlement only proceeds on an active drawing with un-drawn numbers,
	// so a scheduler firing twice near the boundary cannot double-settle.
	if drawing.Drawn() {
		return nil, ErrNoActiveDrawing
	}

	manual := len(manualMain) > 0 || len(manualWorld) > 0
	if manual {
		if err := utils.ValidateNumberPick(manualMain, MainNumberCount, MainNumberMax); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNumbers, err)
		}
		if err := utils.ValidateNumberPick(manualWorld, WorldNumberCount, WorldNumberMax); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNumbers, err)
		}
	}

	tickets, err := s.ticketRepo.FindByDrawing(ctx, drawing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	var selection NumberSelection
	if manual {
		selection = NumberSelection{
			MainNumbers:  utils.SortedCopy(manualMain),
			WorldNumbers: utils.SortedCopy(manualWorld),
		}
	} else {
		selection = s.selector.Select(s.drawMode(ctx), tickets)
	}

	drawing.MainNumbers = selection.MainNumbers
	drawing.WorldNumbers = selection.WorldNumbers
	drawing.IsActive = false

	// Classify every surviving ticket of this drawing.
	winnersByClass := make(map[int]int)
	classByTicket := make(map[primitive.ObjectID]int, len(tickets))
	for _, t := range tickets {
		class := Classify(t, selection.MainNumbers, selection.WorldNumbers)
		classByTicket[t.ID] = class
		if class > 0 {
			winnersByClass[class]++
		}
	}

	reserve, err := s.stateRepo.GetReserveFund(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserve fund: %w", err)
	}
	result := s.engine.Settle(len(tickets), winnersByClass, drawing.JackpotAmount, reserve)
	if err := s.stateRepo.SetReserveFund(ctx, result.NewReserveFund); err != nil {
		return nil, fmt.Errorf("failed to update reserve fund: %w", err)
	}

	// Assign winnings and credit balances. Class 1 is deferred until an
	// admin approves the win; everything else pays immediately. The
	// drawing's payout total only counts credited amounts, so a pending
	// jackpot stays out of it until approval.
	paidTotal := 0.0
	for _, t := range tickets {
		class := classByTicket[t.ID]
		if class == 0 {
			continue
		}
		payout := result.PayoutsByClass[class]
		t.IsWinner = true
		t.WinningClass = class
		if class == 1 {
			t.WinningAmount = math.Floor(payout.PerWinner)
			t.JackpotApproval = models.ApprovalPending
			_ = s.eventRepo.Create(ctx, &models.Event{
				Type:      models.EventJackpotPending,
				DrawingID: drawing.ID,
				TicketID:  t.ID,
				Message:   "jackpot win awaiting admin approval",
				Amount:    t.WinningAmount,
			})
		} else {
			t.WinningAmount = payout.PerWinner
			paidTotal += t.WinningAmount
			if err := s.userRepo.IncrementBalance(ctx, t.UserID, t.WinningAmount); err != nil {
				slog.Error("Failed to credit winnings", "error", err, "ticketId", t.ID, "userId", t.UserID)
			} else {
				_ = s.txRepo.Create(ctx, &models.BalanceTransaction{
					UserID:   t.UserID,
					Amount:   t.WinningAmount,
					Source:   models.SourceWinnings,
					TicketID: t.ID,
					Note:     fmt.Sprintf("class %d win", class),
				})
			}
		}
		if err := s.ticketRepo.Update(ctx, t); err != nil {
			slog.Error("Failed to store ticket result", "error", err, "ticketId", t.ID)
		}
	}

	// Degraded-guarantee payouts are payout-integrity events, surfaced
	// both in the result and in the audit log.
	for class := 2; class <= 12; class++ {
		if payout := result.PayoutsByClass[class]; payout.Degraded {
			_ = s.eventRepo.Create(ctx, &models.Event{
				Type:      models.EventDegradedPayout,
				DrawingID: drawing.ID,
				Message:   fmt.Sprintf("class %d paid %.2f per winner, below the configured minimum", class, payout.PerWinner),
				Amount:    payout.TotalPayout,
			})
		}
	}

	nextJackpot := result.NewJackpot
	if result.JackpotWon || nextJackpot < s.cfg.JackpotFloor {
		// A class-1 win always resets to the floor, regardless of the
		// engine's own carry-over computation.
		nextJackpot = s.cfg.JackpotFloor
	}

	drawing.WinnersByClass = winnersByClass
	drawing.TotalWinningsPayout = paidTotal
	drawing.NextJackpotAmount = nextJackpot
	if err := s.drawingRepo.Update(ctx, drawing); err != nil {
		return nil, fmt.Errorf("failed to store settled drawing: %w", err)
	}

	next := &models.Drawing{
		Date:             utils.NextDrawTime(drawing.Date, s.cfg.DrawHour),
		MainNumbers:      []int{},
		WorldNumbers:     []int{},
		JackpotAmount:    nextJackpot,
		RealJackpot:      nextJackpot,
		SimulatedJackpot: nextJackpot,
		IsActive:         true,
	}
	if !next.Date.After(s.now()) {
		next.Date = utils.NextDrawTime(s.now(), s.cfg.DrawHour)
	}
	if err := s.drawingRepo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to create next drawing: %w", err)
	}

	_ = s.rolloverRepo.Create(ctx, &models.JackpotRollover{
		SourceDrawingID:    drawing.ID,
		SourceDrawingDate:  drawing.Date,
		RolloverAmount:     nextJackpot,
		JackpotWon:         result.JackpotWon,
		DestinationDrawing: next.ID,
	})
	_ = s.eventRepo.Create(ctx, &models.Event{
		Type:      models.EventDrawingSettled,
		DrawingID: drawing.ID,
		Message:   fmt.Sprintf("drawing settled: %d tickets, %.2f paid out", len(tickets), drawing.TotalWinningsPayout),
		Amount:    drawing.TotalWinningsPayout,
	})

	// Notify the payout distribution collaborator outside the settlement
	// path. Fire-and-forget: failures are logged, never propagated.
	notice := paymentgateway.SettlementNotice{
		DrawingID:    drawing.ID.Hex(),
		DrawingDate:  drawing.Date,
		TotalPayout:  result.TotalPayout,
		HouseRevenue: float64(len(tickets))*s.engine.Params().TicketPrice - result.PoolBase,
	}
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.payments.NotifySettlement(notifyCtx, notice); err != nil {
			slog.Error("Settlement notification failed", "error", err, "drawingId", notice.DrawingID)
		}
	}()

	slog.Info("Drawing settled",
		"drawingId", drawing.ID,
		"mainNumbers", drawing.MainNumbers,
		"worldNumbers", drawing.WorldNumbers,
		"tickets", len(tickets),
		"totalPayout", drawing.TotalWinningsPayout,
		"nextJackpot", nextJackpot)
	return drawing, nil
}

func (s *LotteryServiceImpl) drawMode(ctx context.Context) DrawMode {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil || settings.IntelligentDrawing {
		return DrawModeIntelligent
	}
	return DrawModeRandom
}

// PreviewDrawing is a read-only dry run of the selector, the classifier
// and the payout estimate. It must not write drawings, tickets, the
// reserve fund or balances.
func (s *LotteryServiceImpl) PreviewDrawing(ctx context.Context, useIntelligent bool) (*models.DrawingPreview, error) {
	drawing, err := s.CurrentDrawing(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.FindByDrawing(ctx, drawing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	mode := DrawModeRandom
	if useIntelligent {
		mode = DrawModeIntelligent
	}
	selection := s.selector.Select(mode, tickets)

	winners := make(map[int]int)
	for _, t := range tickets {
		if class := Classify(t, selection.MainNumbers, selection.WorldNumbers); class > 0 {
			winners[class]++
		}
	}
	reserve, err := s.stateRepo.GetReserveFund(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserve fund: %w", err)
	}
	estimate := s.engine.Settle(len(tickets), winners, drawing.JackpotAmount, reserve)

	return &models.DrawingPreview{
		SuggestedMainNumbers:  selection.MainNumbers,
		SuggestedWorldNumbers: selection.WorldNumbers,
		WinnerPreview:         winners,
		EstimatedPayout:       estimate.TotalPayout,
		MainFrequencies:       MainFrequencies(tickets),
		WorldFrequencies:      WorldFrequencies(tickets),
		TicketCount:           len(tickets),
		Estimate:              estimate,
	}, nil
}

// --- Jackpot approval workflow ---

// PendingJackpotWinners lists class-1 wins awaiting an admin decision.
func (s *LotteryServiceImpl) PendingJackpotWinners(ctx context.Context) ([]*models.Ticket, error) {
	return s.ticketRepo.FindPendingJackpot(ctx)
}

// ApproveJackpotWinner releases a pending jackpot win: the ticket's
// winning amount is credited to the user and the drawing's payout total
// is updated to include it.
func (s *LotteryServiceImpl) ApproveJackpotWinner(ctx context.Context, ticketID, adminID primitive.ObjectID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.pendingJackpotTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.JackpotApproval = models.ApprovalApproved
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	if err := s.userRepo.IncrementBalance(ctx, ticket.UserID, ticket.WinningAmount); err != nil {
		return nil, fmt.Errorf("failed to credit jackpot: %w", err)
	}
	_ = s.txRepo.Create(ctx, &models.BalanceTransaction{
		UserID:   ticket.UserID,
		Amount:   ticket.WinningAmount,
		Source:   models.SourceWinnings,
		TicketID: ticket.ID,
		Note:     "jackpot win approved",
	})
	_ = s.eventRepo.Create(ctx, &models.Event{
		Type:      models.EventJackpotApproved,
		DrawingID: ticket.DrawingID,
		TicketID:  ticket.ID,
		Message:   "jackpot win approved and credited",
		Amount:    ticket.WinningAmount,
		ActorID:   adminID,
	})

	if drawing, err := s.drawingRepo.FindByID(ctx, ticket.DrawingID); err == nil {
		drawing.TotalWinningsPayout += ticket.WinningAmount
		if err := s.drawingRepo.Update(ctx, drawing); err != nil {
			slog.Error("Failed to update drawing payout total", "error", err, "drawingId", drawing.ID)
		}
	}

	slog.Info("Jackpot win approved", "ticketId", ticket.ID, "amount", ticket.WinningAmount, "adminId", adminID)
	return ticket, nil
}

// RejectJackpotWinner reverts a pending jackpot win: the ticket is no
// longer a winner and nothing is credited. The drawing's aggregates are
// rebuilt from the surviving tickets.
func (s *LotteryServiceImpl) RejectJackpotWinner(ctx context.Context, ticketID, adminID primitive.ObjectID, reason string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.pendingJackpotTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	amount := ticket.WinningAmount
	ticket.JackpotApproval = models.ApprovalRejected
	ticket.RejectionReason = reason
	ticket.IsWinner = false
	ticket.WinningClass = 0
	ticket.WinningAmount = 0
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	_ = s.eventRepo.Create(ctx, &models.Event{
		Type:      models.EventJackpotRejected,
		DrawingID: ticket.DrawingID,
		TicketID:  ticket.ID,
		Message:   fmt.Sprintf("jackpot win rejected: %s", reason),
		Amount:    amount,
		ActorID:   adminID,
	})

	if drawing, err := s.drawingRepo.FindByID(ctx, ticket.DrawingID); err == nil && drawing.Drawn() {
		if err := s.recalculateLocked(ctx, drawing); err != nil {
			return nil, err
		}
	}

	slog.Info("Jackpot win rejected", "ticketId", ticket.ID, "reason", reason, "adminId", adminID)
	return ticket, nil
}

func (s *LotteryServiceImpl) pendingJackpotTicket(ctx context.Context, ticketID primitive.ObjectID) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	if ticket.Deleted || !ticket.IsWinner || ticket.WinningClass != 1 || ticket.JackpotApproval != models.ApprovalPending {
		return nil, ErrNotPendingJackpot
	}
	return ticket, nil
}

// --- Reserve fund accessors ---

// ReserveFund returns the current reserve fund balance.
func (s *LotteryServiceImpl) ReserveFund(ctx context.Context) (float64, error) {
	return s.stateRepo.GetReserveFund(ctx)
}

// SetReserveFund replaces the reserve fund balance. Negative amounts are
// rejected.
func (s *LotteryServiceImpl) SetReserveFund(ctx context.Context, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	return s.stateRepo.SetReserveFund(ctx, amount)
}

// AddToReserveFund adds a strictly positive amount to the reserve fund.
func (s *LotteryServiceImpl) AddToReserveFund(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.stateRepo.GetReserveFund(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reserve fund: %w", err)
	}
	return s.stateRepo.SetReserveFund(ctx, current+amount)
}
