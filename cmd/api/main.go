package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	"storefront/internal/infra/mail"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("storefront", true)
		logger.Logger.Fatal().Err(err).Msg("load config")
	}

	logger.Init("storefront", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("connect db")
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Logger.Fatal().Err(err).Msg("migrate db")
	}

	redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; product cache disabled")
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var mailer usecase.Mailer = mail.LogMailer{}
	if cfg.PostmarkServerToken != "" {
		mailer = mail.NewPostmarkMailer(cfg.PostmarkServerToken, cfg.MailFrom)
	}

	a, err := app.Build(cfg, app.Deps{
		DB:      gormDB,
		Redis:   redisClient,
		Mailer:  mailer,
		Metrics: metrics.New(),
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("build app")
	}

	//管理者アカウント（ADMIN_EMAIL/ADMIN_PASSWORDがあれば）
	if err := a.Register.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Logger.Fatal().Err(err).Msg("ensure admin")
	}

	if err := a.Cleanup.Start(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("start reset token cleanup")
	}
	defer a.Cleanup.Stop()

	//Server起動
	if err := server.Start(ctx, cfg, a.Echo); err != nil {
		logger.Logger.Error().Err(err).Msg("server stopped")
	}
}
