package app

import (
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/task"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 外から渡す部品（main・テストで差し替え）
type Deps struct {
	DB         *gorm.DB
	Redis      redis.UniversalClient // nilならキャッシュなし
	Mailer     usecase.Mailer
	Metrics    *metrics.Metrics // nilならメトリクスなし
	BcryptCost int              // 0ならbcrypt.DefaultCost
}

type App struct {
	Echo     *echo.Echo
	Register *auth.RegisterUserUsecase
	Cleanup  *task.ResetTokenCleanupTask
}

// repository → usecase → handler の順に組み立ててルートを登録
func Build(cfg config.Config, deps Deps) (*App, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("db is required")
	}
	if deps.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	//Repository（GORM実装）
	customerRepo := infraRepo.NewCustomerGormRepository(deps.DB)
	productRepo := cache.NewCachedProductRepository(infraRepo.NewProductGormRepository(deps.DB), deps.Redis, cfg.CacheTTL)
	cartRepo := infraRepo.NewCartGormRepository(deps.DB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(deps.DB)
	commentRepo := infraRepo.NewCommentGormRepository(deps.DB)
	resetTokenRepo := infraRepo.NewResetTokenRepository(deps.DB)
	settingsRepo := infraRepo.NewSettingsGormRepository(deps.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(deps.DB)
	txManager := infraRepo.NewTxManagerGorm(deps.DB)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(deps.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	clock := auth.SystemClock{}

	var recorder usecase.MutationRecorder
	var metricsHandler http.Handler
	var observer middleware.RequestObserver
	if deps.Metrics != nil {
		recorder = deps.Metrics
		metricsHandler = deps.Metrics.Handler()
		observer = deps.Metrics
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(customerRepo, settingsRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(customerRepo, verifier, issuer, clock)
	logoutUC := auth.NewLogoutUsecase(customerRepo)
	customerUC := usecase.NewCustomerUsecase(customerRepo, txManager, hasher, verifier)
	productUC := usecase.NewProductUsecase(productRepo, txManager)
	cartUC := usecase.NewCartUsecase(customerRepo, productRepo, cartRepo, recorder)
	favoriteUC := usecase.NewFavoriteUsecase(customerRepo, productRepo, favoriteRepo, recorder)
	commentUC := usecase.NewCommentUsecase(commentRepo, productRepo, customerRepo, txManager)
	resetUC := usecase.NewPasswordResetUsecase(customerRepo, resetTokenRepo, txManager, hasher, deps.Mailer, clock, cfg.AppURL)
	settingsUC := usecase.NewSettingsUsecase(customerRepo, settingsRepo)
	contactUC := usecase.NewContactUsecase(deps.Mailer, cfg.ContactInbox)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Health:        handler.NewHealthHandler(sqlDB),
		Customer:      handler.NewCustomerHandler(cfg, registerUC, loginUC, logoutUC, customerUC),
		Admin:         handler.NewAdminHandler(cfg, loginUC, auditUC),
		Product:       handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Favorite:      handler.NewFavoriteHandler(favoriteUC),
		Comment:       handler.NewCommentHandler(commentUC),
		PasswordReset: handler.NewPasswordResetHandler(resetUC),
		Settings:      handler.NewSettingsHandler(settingsUC),
		Contact:       handler.NewContactHandler(contactUC),
	}

	e := server.New(observer)
	server.RegisterRoutes(e, handlers, handler.NewGuards(cfg, customerRepo), metricsHandler)

	return &App{
		Echo:     e,
		Register: registerUC,
		Cleanup:  task.NewResetTokenCleanupTask(resetTokenRepo, cfg.TokenCleanupSchedule),
	}, nil
}
