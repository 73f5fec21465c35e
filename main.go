package main

import (
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Mezsondra/transkribe/config"
	"github.com/Mezsondra/transkribe/handlers"
	"github.com/Mezsondra/transkribe/internal/provider"
	"github.com/Mezsondra/transkribe/internal/session"
	"github.com/Mezsondra/transkribe/middleware"
	"github.com/Mezsondra/transkribe/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		// The structured logger is configured from the config, so this one
		// failure goes out the plain way.
		stdlog.Fatalf("failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg.LogLevel)

	persist, err := store.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize persistence")
	}
	aiProvider := provider.New(cfg.ProviderBaseURL, log)
	sessions := session.NewManager(persist, aiProvider, log, cfg.AutosaveInterval)
	h := handlers.NewApplicationHandler(sessions, log)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "transcript service is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	apiV1.Post("/sessions", h.OpenSession)
	apiV1.Delete("/sessions/:id", h.CloseSession)

	s := apiV1.Group("/sessions/:id")
	s.Get("/view", h.GetView)
	s.Patch("/editing", h.SetEditing)
	s.Patch("/timestamp-mode", h.SetTimestampMode)
	s.Put("/utterances/:index/surface", h.SubmitSurface)
	s.Post("/save", h.SaveTranscript)
	s.Put("/title", h.SaveTitle)
	s.Put("/speakers/:speakerId", h.RenameSpeaker)

	s.Post("/search", h.Search)
	s.Post("/search/navigate", h.Navigate)
	s.Post("/replace", h.ReplaceAll)
	s.Post("/undo", h.Undo)

	s.Get("/position", h.GetPosition)
	s.Patch("/selection", h.SetSelection)

	s.Get("/highlights", h.ListHighlights)
	s.Post("/highlights", h.CreateHighlight)
	s.Delete("/highlights/:highlightId", h.DeleteHighlight)

	s.Post("/translate", h.Translate)
	s.Get("/summary", h.Summarize)
	s.Post("/export", h.Export)
	s.Get("/copy-text", h.CopyText)
	s.Delete("/transcript", h.DeleteTranscript)

	apiV1.Delete("/transcripts/:transcriptId", h.DeleteTranscriptByID)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Info("shutting down")
		sessions.Shutdown()
		_ = app.Shutdown()
	}()

	log.WithField("addr", cfg.ListenAddr).Info("starting transcript service")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
