package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/lottohaus/worldlotto-backend/api/routes"
	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/handlers"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	memrepo "github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
	mongorepo "github.com/lottohaus/worldlotto-backend/internal/repositories/mongodb"
	"github.com/lottohaus/worldlotto-backend/internal/scheduler"
	"github.com/lottohaus/worldlotto-backend/internal/services"
	"github.com/lottohaus/worldlotto-backend/internal/utils"
	"github.com/lottohaus/worldlotto-backend/pkg/geoip"
	"github.com/lottohaus/worldlotto-backend/pkg/mongodb"
	"github.com/lottohaus/worldlotto-backend/pkg/paymentgateway"
)

type repositorySet struct {
	tickets      repositories.TicketRepository
	drawings     repositories.DrawingRepository
	users        repositories.UserRepository
	coupons      repositories.CouponRepository
	systemState  repositories.SystemStateRepository
	transactions repositories.TransactionRepository
	events       repositories.EventRepository
	rollovers    repositories.JackpotRolloverRepository
}

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	repos, cleanup, err := buildRepositories(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer cleanup()

	var payments paymentgateway.Gateway
	if cfg.Payment.Mock {
		payments = paymentgateway.NewMockGateway()
	} else {
		payments = paymentgateway.NewHTTPGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey)
	}
	var geoResolver geoip.Client
	if cfg.GeoIP.Mock {
		geoResolver = geoip.NewMockClient("")
	} else {
		geoResolver = geoip.NewHTTPClient(cfg.GeoIP.BaseURL, cfg.GeoIP.APIKey)
	}

	selector := services.NewNumberSelector(time.Now().UnixNano())
	engine := services.NewPayoutEngine(models.DefaultPrizeClassTable(), services.PayoutParams{
		TicketPrice:       cfg.Lottery.TicketPrice,
		PayoutRate:        cfg.Lottery.PayoutRate,
		ReservePercentage: cfg.Lottery.ReservePercentage,
		JackpotCap:        cfg.Lottery.JackpotCap,
	})

	lotteryService := services.NewLotteryService(
		repos.tickets, repos.drawings, repos.users, repos.coupons,
		repos.systemState, repos.transactions, repos.events, repos.rollovers,
		selector, engine, payments, cfg.Lottery)
	authService := services.NewAuthService(repos.users, cfg)
	userService := services.NewUserService(repos.users, repos.transactions)
	couponService := services.NewCouponService(repos.coupons)
	settingsService := services.NewSettingsService(repos.systemState)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := lotteryService.EnsureActiveDrawing(ctx); err != nil {
		cancel()
		slog.Error("Failed to ensure active drawing", "error", err)
		os.Exit(1)
	}
	cancel()

	deps := routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		UserHandler:     handlers.NewUserHandler(userService),
		TicketHandler:   handlers.NewTicketHandler(lotteryService),
		DrawingHandler:  handlers.NewDrawingHandler(lotteryService),
		JackpotHandler:  handlers.NewJackpotHandler(lotteryService),
		AdminHandler:    handlers.NewAdminHandler(settingsService, lotteryService, repos.events, utils.NewCSVImporter(repos.users, repos.transactions)),
		CouponHandler:   handlers.NewCouponHandler(couponService),
		SettingsService: settingsService,
		GeoIPClient:     geoResolver,
	}
	router := routes.SetupRouter(cfg, deps)

	drawScheduler := scheduler.New(lotteryService, cfg.Lottery.DrawSchedule)
	if err := drawScheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down")

	drawScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

func buildRepositories(cfg *config.Config) (*repositorySet, func(), error) {
	if cfg.Storage.Driver == "mongodb" {
		client, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		repos := &repositorySet{
			tickets:      mongorepo.NewTicketRepository(db),
			drawings:     mongorepo.NewDrawingRepository(db),
			users:        mongorepo.NewUserRepository(db),
			coupons:      mongorepo.NewCouponRepository(db),
			systemState:  mongorepo.NewSystemStateRepository(db),
			transactions: mongorepo.NewTransactionRepository(db),
			events:       mongorepo.NewEventRepository(db),
			rollovers:    mongorepo.NewJackpotRolloverRepository(db),
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				slog.Error("Failed to disconnect MongoDB", "error", err)
			}
		}
		return repos, cleanup, nil
	}

	repos := &repositorySet{
		tickets:      memrepo.NewTicketRepository(),
		drawings:     memrepo.NewDrawingRepository(),
		users:        memrepo.NewUserRepository(),
		coupons:      memrepo.NewCouponRepository(),
		systemState:  memrepo.NewSystemStateRepository(),
		transactions: memrepo.NewTransactionRepository(),
		events:       memrepo.NewEventRepository(),
		rollovers:    memrepo.NewJackpotRolloverRepository(),
	}
	return repos, func() {}, nil
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
