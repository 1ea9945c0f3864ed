package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawlab/intake-agent/internal/adapters/calendar"
	httpadapter "github.com/lawlab/intake-agent/internal/adapters/http"
	"github.com/lawlab/intake-agent/internal/adapters/llm"
	boltstore "github.com/lawlab/intake-agent/internal/adapters/storage/bolt"
	firestorestore "github.com/lawlab/intake-agent/internal/adapters/storage/firestore"
	memstore "github.com/lawlab/intake-agent/internal/adapters/storage/memory"
	"github.com/lawlab/intake-agent/internal/app/chat"
	"github.com/lawlab/intake-agent/internal/app/scheduling"
	"github.com/lawlab/intake-agent/internal/config"
	"github.com/lawlab/intake-agent/internal/domain"
	"github.com/lawlab/intake-agent/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		log.Warn("session secret is not set, cookies are signed with an empty key")
	}

	// LLM: mock for local dev, Gemini otherwise. A missing API key
	// degrades the chat endpoint instead of killing the process.
	var llmClient domain.LLMClient
	var prober domain.LLMProber
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName, llm.GenerationParams{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
		if err != nil {
			log.Warn("gemini client unavailable", "error", err)
			llmClient = llm.NewMisconfigured(err)
		} else {
			log.Info("using gemini LLM client", "model", cfg.ModelName)
			llmClient = gemini
			prober = gemini
		}
	}

	// Calendar: same policy.
	var calClient domain.CalendarClient
	if cfg.UseMockCalendar {
		log.Info("using mock calendar client")
		calClient = calendar.NewMockCalendar()
	} else {
		gc, err := calendar.NewGoogleCalendar(ctx, cfg.GoogleCredentials, cfg.CalendarID)
		if err != nil {
			log.Warn("google calendar unavailable", "error", err)
			calClient = calendar.NewMisconfigured(err)
		} else {
			log.Info("using google calendar client", "calendar_id", cfg.CalendarID)
			calClient = gc
		}
	}

	// Session storage backend.
	var sessionStore domain.SessionStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using firestore session store", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("initializing firestore store", "error", err)
			os.Exit(1)
		}
		defer fs.Close()
		sessionStore = fs
	case "bolt":
		log.Info("using bolt session store", "path", cfg.BoltPath)
		bs, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			log.Error("opening bolt store", "error", err)
			os.Exit(1)
		}
		defer bs.Close()
		sessionStore = bs
	default:
		log.Info("using in-memory session store")
		sessionStore = memstore.NewSessionStore()
	}

	chatSvc := chat.NewService(llmClient, sessionStore, cfg.ModelName, llm.SystemPrompt, cfg.UpstreamTimeout)
	schedSvc, err := scheduling.NewService(calClient, cfg.UpstreamTimeout)
	if err != nil {
		log.Error("initializing scheduling service", "error", err)
		os.Exit(1)
	}

	go sweepExpired(ctx, sessionStore, cfg.SessionTTL)

	handler := httpadapter.NewServer(chatSvc, schedSvc, prober, httpadapter.Options{
		CookieName:     cfg.SessionCookie,
		CookieSecret:   cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("intake API listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// sweepExpired periodically drops sessions idle past the TTL.
func sweepExpired(ctx context.Context, store domain.SessionStore, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := observability.Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx, time.Now().Add(-ttl))
			if err != nil {
				log.Error("sweeping expired sessions", "error", err)
				continue
			}
			if n > 0 {
				log.Info("swept expired sessions", "count", n)
			}
		}
	}
}
