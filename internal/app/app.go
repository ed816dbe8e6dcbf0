// Package app wires configuration, storage, moderation and the audit worker
// into a running comment service.
package app

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"blogcomments/internal/audit"
	"blogcomments/internal/cache"
	"blogcomments/internal/config"
	"blogcomments/internal/database"
	"blogcomments/internal/moderator"
	"blogcomments/internal/queue"
	"blogcomments/internal/redis"
	"blogcomments/internal/repository"
	"blogcomments/internal/service"
	"blogcomments/internal/worker"
)

// App holds the running components. Comments is the entry point for callers
// such as an HTTP layer.
type App struct {
	Comments   *service.CommentService
	Moderation *service.ModerationService

	db      *sqlx.DB
	redis   *redis.Client
	workers *worker.Manager
}

// New connects to the database and Redis and builds the comment service.
// Without Redis the moderator reads banned words straight from the database
// and audit events are written synchronously.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// 1. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	// 2. Repositories
	commentRepo := repository.NewCommentRepository(db)
	replyRepo := repository.NewCommentReplyRepository(db)
	postRepo := repository.NewPostRepository(db)
	bannedWordRepo := repository.NewBannedWordRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if len(cfg.BannedWords) > 0 {
		if err := bannedWordRepo.Add(ctx, cfg.BannedWords...); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed banned words: %w", err)
		}
		log.Printf("[App] Seeded %d banned words", len(cfg.BannedWords))
	}

	a := &App{db: db}

	// 3. Redis: banned word cache and audit stream
	var source moderator.WordSource = bannedWordRepo
	var sink audit.Sink = audit.NewStoreSink(auditRepo)
	var wordCache service.WordCacheInvalidator

	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("[App] Redis unavailable, using database word source and synchronous audit: %v", err)
	} else {
		a.redis = rdb

		cached := cache.NewWordCache(rdb.Client, bannedWordRepo)
		if err := cached.Invalidate(ctx); err != nil {
			log.Printf("[App] Failed to invalidate banned word cache: %v", err)
		}
		source = cached
		wordCache = cached
		sink = audit.NewStreamSink(queue.NewPublisher(rdb.Client))

		workerCfg := worker.DefaultManagerConfig()
		workerCfg.WorkerCount = cfg.AuditWorkers
		a.workers = worker.NewManager(queue.NewConsumer(rdb.Client), worker.NewHandler(auditRepo), workerCfg)
	}

	// 4. Services
	a.Moderation = service.NewModerationService(bannedWordRepo, auditRepo, wordCache)
	a.Comments = service.NewCommentService(
		cfg.Content,
		sink,
		commentRepo,
		replyRepo,
		postRepo,
		moderator.NewLocalModerator(source),
	)

	return a, nil
}

// Start launches the audit workers when Redis is available.
func (a *App) Start(ctx context.Context) error {
	if a.workers == nil {
		return nil
	}
	return a.workers.Start(ctx)
}

// Close stops the workers and releases connections.
func (a *App) Close() {
	if a.workers != nil {
		a.workers.Stop()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}

// Run loads configuration, starts the application and blocks until SIGINT
// or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start audit workers: %w", err)
	}

	count, err := a.Comments.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("[App] Comment service ready (%d comments stored)", count)

	<-ctx.Done()
	log.Println("[App] Shutting down")
	return nil
}
