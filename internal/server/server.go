package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent/telemetry"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/provider"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session/inmemory"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session/redisstore"
)

// Run wires the full system and serves the API until the process exits.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	origin := cfg.Server.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if cfg.Server.MetricsRoute {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	ctx := context.Background()

	// record store: Postgres when configured, the bundled sample set otherwise
	st := store.New()
	if cfg.Storage.Postgres.Configured() {
		db, err := store.OpenPostgres(ctx, cfg.Storage.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.LoadFromPostgres(ctx, db, st); err != nil {
			return err
		}
		log.Printf("loaded records from postgres (%d members)", len(st.ListMembers()))
	} else {
		store.LoadSampleData(st)
		log.Printf("postgres not configured, using sample data (%d members)", len(st.ListMembers()))
	}

	llm, err := provider.NewLLMProvider(cfg.LLM)
	if err != nil {
		return err
	}

	index, err := rag.NewIndex(cfg.RAG.PersistDir)
	if err != nil {
		return err
	}
	pipeline := rag.NewPipeline(cfg.RAG, llm, cfg.LLM.Routing.Embedding, index)
	// plan documents follow the record source: the plan_documents table when
	// Postgres is configured, the bundled sample set otherwise
	docs := st.PlanDocuments()
	if len(docs) == 0 {
		docs = rag.SampleDocuments()
	}
	if index.Len() == 0 {
		if err := pipeline.IngestAll(ctx, docs); err != nil {
			// keyword search still works over whatever got in; the document
			// path degrades, claims are unaffected
			log.Printf("document ingestion failed, retrieval degraded: %v", err)
		}
	}

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	tele := telemetry.New(cfg.Telemetry)
	ag := agent.New(cfg, st, pipeline, llm, sessions, tele)

	h := &ChatHandler{Store: st, Agent: ag, Telemetry: tele}
	h.Register(e.Group("/api"))

	if cfg.Server.ReindexCron != "" {
		sched, err := NewScheduler(ctx, cfg, pipeline, docs)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Shutdown()
	}

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

func buildSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		client, err := redisstore.Conn(ctx, cfg.Storage.Redis.Addr(), cfg.Storage.Redis.Password,
			cfg.Storage.Redis.DB, cfg.Storage.Redis.Timeout)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		return redisstore.NewStore(client, cfg.Session.TTL), nil
	case "inmemory", "":
		return inmemory.NewStore(cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}
}
