// File: keyscal/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"keyscal/config"
	"keyscal/cron"
	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/handlers"
	"keyscal/middleware"
	"keyscal/routes"
	"keyscal/services/availability"
	"keyscal/services/rollover"
	"keyscal/services/timeslot"
	"keyscal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// openStore is swapped in tests.
var openStore = timeslotRepo.Open

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, config.AppConfig, logger)
	stop()

	if err != nil {
		logger.Error("main: exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// app holds the wired server plus everything that must be released on exit,
// in acquisition order.
type app struct {
	server  *http.Server
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// newApp wires store, cache, engine, services and router. On error every
// resource acquired so far is already released.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	a.closers = append(a.closers, closeStore)

	cacheClient, err := utils.InitCache(ctx)
	if err != nil {
		return nil, err
	}
	if cacheClient != nil {
		store = timeslotRepo.NewCachedTimeSlotRepo(store, cacheClient, cfg.CacheTTL)
		a.closers = append(a.closers, func() { _ = cacheClient.Close() })
		logger.Info("main: redis read cache enabled", zap.String("addr", cfg.RedisAddr))
	}
	utils.StartHealthMonitor(ctx, store, cacheClient, utils.HealthCheckInterval)

	// core.
	loc := cfg.Location()
	clock := rollover.NewClock(loc)
	roster := cfg.RosterList()
	hours := availability.Hours(cfg.GridFirstHour, cfg.GridLastHour)
	weekStart, err := config.ParseWeekday(cfg.WeekStart)
	if err != nil {
		return nil, err
	}

	engine := rollover.NewEngine(store, clock, logger.Named("rollover"))
	engine.Transactional = cfg.RolloverTransactional

	if cfg.RolloverCron != "" {
		scheduler, err := cron.InitRolloverWorker(cfg.RolloverCron, loc, engine, time.Minute, logger.Named("cron"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { <-scheduler.Stop().Done() })
	}

	// services.
	slotService, err := timeslot.NewDefaultTimeSlotService(store, clock, roster, hours)
	if err != nil {
		return nil, err
	}

	// handlers.
	slotHandler := handlers.NewTimeSlotHandler(slotService)
	calendarHandler := &handlers.CalendarHandler{
		Service:   slotService,
		Rollover:  engine,
		Clock:     clock,
		Roster:    roster,
		WeekStart: weekStart,
		Hours:     hours,
	}

	handlerBundle := &handlers.HandlerBundle{
		Roster:        roster,
		HealthHandler: handlers.HealthHandler,

		GetRosterHandler: calendarHandler.GetRosterHandler,
		GetWeekHandler:   calendarHandler.GetWeekHandler,
		RolloverHandler:  calendarHandler.RolloverHandler,
		GetICSHandler:    calendarHandler.GetICSHandler,

		GetTimeSlotsByDateHandler: slotHandler.GetByDateHandler,
		CreateTimeSlotHandler:     slotHandler.CreateHandler,
		UpdateTimeSlotHandler:     slotHandler.UpdateHandler,
		DeleteTimeSlotHandler:     slotHandler.DeleteHandler,

		ToggleCellHandler: slotHandler.ToggleCellHandler,
		ToggleDayHandler:  slotHandler.ToggleDayHandler,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	a.server = &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// run serves until ctx is done or the listener fails, then shuts down and
// releases everything newApp acquired.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		cancel()
		a.close()
	}()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	logger.Sugar().Infof("Starting server on %s (store=%s, timezone=%s)...", ln.Addr(), cfg.StoreDriver, cfg.Location())
	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("main: server is shutting down...")
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
	return nil
}
