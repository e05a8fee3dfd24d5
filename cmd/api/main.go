package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edubase/academy-backend-go/internal/config"
	appHTTP "github.com/edubase/academy-backend-go/internal/handler/http"
	"github.com/edubase/academy-backend-go/internal/pkg/clock"
	"github.com/edubase/academy-backend-go/internal/pkg/cron"
	"github.com/edubase/academy-backend-go/internal/pkg/database"
	"github.com/edubase/academy-backend-go/internal/pkg/jwt"
	"github.com/edubase/academy-backend-go/internal/pkg/messenger"
	"github.com/edubase/academy-backend-go/internal/repository/postgresql"
	attendanceService "github.com/edubase/academy-backend-go/internal/service/attendance"
	notifyService "github.com/edubase/academy-backend-go/internal/service/notify"
	reconcileService "github.com/edubase/academy-backend-go/internal/service/reconcile"
	reportService "github.com/edubase/academy-backend-go/internal/service/report"
	settingsService "github.com/edubase/academy-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	transport := messenger.NewSMTPTransport(messenger.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: "EduBase Academy",
	})

	clk := clock.System()

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clk, loc)
	reportSvc := reportService.NewReportService(reportRepo, loc)
	dispatcher := notifyService.NewDispatcher(reportRepo, transport)
	reconcileSvc := reconcileService.NewReconcileService(
		attendanceSvc,
		reportRepo,
		dispatcher,
		loc,
		reconcileService.Config{
			FixInOffset:   cfg.Reconcile.FixInOffset,
			FixInFallback: cfg.Reconcile.FixInFallback,
		},
	)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, cfg.App.Timezone)

	runner := cron.NewRunner(settingsSvc, cron.NewSchedule(), clk)
	cron.NewSweepJobs(reconcileSvc).RegisterSweeps(runner)
	runner.Start()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, loc)
	reportHandler := appHTTP.NewReportHandler(reportSvc, dispatcher, loc)
	reconcileHandler := appHTTP.NewReconcileHandler(reconcileSvc, loc)
	sweepHandler := appHTTP.NewSweepHandler(runner)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		jwtService,
		attendanceHandler,
		reportHandler,
		reconcileHandler,
		sweepHandler,
		settingsHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on :%d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	runner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	log.Println("Server stopped")
}
