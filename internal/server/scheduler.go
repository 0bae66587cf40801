package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

const reindexLockKey = "sched:lock:reindex"

// Scheduler rebuilds the retrieval index on a cron schedule so updated plan
// documents eventually reach the index without a restart. A Redis SetNX lock
// keeps multiple serve instances from rebuilding at the same time.
type Scheduler struct {
	pipeline *rag.Pipeline
	docs     func() []models.PlanDocument
	expr     *cronexpr.Expression
	rdb      *redis.Client
	stop     chan struct{}
	logger   *log.Logger
	lastRun  time.Time
}

func NewScheduler(ctx context.Context, cfg *config.Config, pipeline *rag.Pipeline, docs []models.PlanDocument) (*Scheduler, error) {
	expr, err := cronexpr.Parse(cfg.Server.ReindexCron)
	if err != nil {
		return nil, err
	}
	var rdb *redis.Client
	if err := cfg.Storage.Redis.Validate(); err == nil {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// run unlocked on a single instance rather than fail startup
			log.Printf("scheduler: redis unavailable, running without lock: %v", err)
			rdb = nil
		}
	}
	return &Scheduler{
		pipeline: pipeline,
		docs:     func() []models.PlanDocument { return docs },
		expr:     expr,
		rdb:      rdb,
		stop:     make(chan struct{}),
		logger:   log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
		lastRun:  time.Now(),
	}, nil
}

func (s *Scheduler) Start() {
	ticker := time.NewTicker(time.Minute)
	go func() {
		for {
			select {
			case <-s.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Scheduler) Shutdown() {
	close(s.stop)
}

func (s *Scheduler) tick() {
	now := time.Now()
	next := s.expr.Next(s.lastRun)
	if next.IsZero() || next.After(now) {
		return
	}
	s.lastRun = now

	ctx := context.Background()
	if s.rdb != nil {
		ok, err := s.rdb.SetNX(ctx, reindexLockKey, "1", 2*time.Minute).Result()
		if err != nil {
			s.logger.Printf("reindex lock: %v", err)
			return
		}
		if !ok {
			return
		}
		defer s.rdb.Del(ctx, reindexLockKey)
	}

	started := time.Now()
	if err := s.pipeline.Rebuild(ctx, s.docs()); err != nil {
		s.logger.Printf("reindex failed: %v", err)
		return
	}
	s.logger.Printf("reindex complete in %v (%d passages)", time.Since(started), s.pipeline.Index().Len())
}
