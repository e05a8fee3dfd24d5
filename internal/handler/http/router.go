package http

import (
	"log/slog"
	"os"

	"github.com/edubase/academy-backend-go/internal/handler/http/middleware"
	"github.com/edubase/academy-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	env string,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	reconcileHandler ReconcileHandler,
	sweepHandler SweepHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "academy-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/kiosk", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.KioskCheckIn)
				r.Post("/check-out", attendanceHandler.KioskCheckOut)
			})

			r.Get("/attendance", attendanceHandler.List)

			r.Route("/reconcile/{studentID}/{date}", func(r chi.Router) {
				r.Get("/", reconcileHandler.GetDay)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/times", reconcileHandler.Overwrite)
					r.Post("/fix-in", reconcileHandler.FixIn)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/send", reportHandler.SendSelected)
				r.Post("/{id}/send", reportHandler.SendOne)
				r.Route("/{studentID}/{date}", func(r chi.Router) {
					r.Get("/", reportHandler.Get)
					r.Put("/", reportHandler.Save)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/sweeps/{name}/run", sweepHandler.RunNow)
				r.Get("/settings/sweeps", settingsHandler.ListSweeps)
				r.Put("/settings/sweeps/{name}", settingsHandler.UpdateSweep)
			})
		})
	})
	return r
}
