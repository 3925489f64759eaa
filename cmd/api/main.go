package main

import (
	"context"
	"log"

	"github.com/openfolio/portfolio-backend/config"
	"github.com/openfolio/portfolio-backend/internal/bootstrap"
	"github.com/openfolio/portfolio-backend/internal/httpx"
	"github.com/openfolio/portfolio-backend/internal/mailer"
	"github.com/openfolio/portfolio-backend/internal/messages"
	"github.com/openfolio/portfolio-backend/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	httpx.SetDevMode(cfg.IsDevelopment())

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.URL})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := bootstrap.InitSchema(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	var limiter ratelimit.Store
	if cfg.Redis.Addr != "" {
		client, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisStore(client)
		log.Printf("rate limiter backed by redis at %s", cfg.Redis.Addr)
	} else {
		mem := ratelimit.NewMemoryStore()
		sweeper, err := mem.StartSweeper("@every 5m")
		if err != nil {
			log.Fatalf("rate limiter: %v", err)
		}
		defer sweeper.Stop()
		limiter = mem
		log.Printf("rate limiter backed by in-process store")
	}

	var notify messages.Notifier
	if cfg.MailEnabled() {
		notify = mailer.New(cfg.SMTP)
	} else {
		log.Printf("mail notifications disabled: SMTP not configured")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Cfg:     cfg,
		DB:      db,
		Limiter: limiter,
		Mailer:  notify,
	})

	log.Printf("listening on :%s (%s)", cfg.Server.Port, cfg.App.Environment)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
