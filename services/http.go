package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"

	docs "github.com/JuniorCarti/aws-restart-tracker-api/docs"
	"github.com/JuniorCarti/aws-restart-tracker-api/services/handlers"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// authGuard is implemented by the auth middleware service. Resolved through
// the container by id to keep this package from importing middleware.
type authGuard interface {
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
	DeviceID() fiber.Handler
}

const authMiddlewareID = "auth"

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	progressSvc   *ProgressService
	lbSvc         *LeaderboardService
	onboardingSvc *OnboardingService
	mediaSvc      *MediaService
	rateLimitSvc  *RateLimitService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.lbSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.onboardingSvc = svc.Service(ONBOARDING_SVC).(*OnboardingService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	guard := svc.Service(authMiddlewareID).(authGuard)

	docs.SwaggerInfo.BasePath = ""

	svc.app = fiber.New(fiber.Config{
		AppName:      "aws-restart-tracker-api",
		ErrorHandler: svc.handleError,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Device-ID",
	}))
	svc.app.Use(svc.recordMetrics)

	svc.app.Get("/ping", svc.ping)
	svc.app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	catalogHandler := handlers.NewCatalogHandler(svc.progressSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	lbHandler := handlers.NewLeaderboardHandler(svc.lbSvc)
	userHandler := handlers.NewUserHandler(svc.authSvc, svc.mediaSvc)
	onboardingHandler := handlers.NewOnboardingHandler(svc.onboardingSvc)

	v1 := svc.app.Group("/api/v1", guard.DeviceID())

	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth", svc.rateLimitSvc.Limit("auth"))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	v1.Get("/catalog", catalogHandler.GetCatalog)
	v1.Get("/catalog/categories", guard.OptionalAuth(), catalogHandler.GetCategories)

	v1.Get("/progress", guard.OptionalAuth(), progressHandler.GetProgress)
	v1.Put("/progress/:id", guard.OptionalAuth(), progressHandler.ToggleModule)
	v1.Delete("/progress", guard.OptionalAuth(), progressHandler.ResetProgress)
	v1.Get("/stats", guard.OptionalAuth(), progressHandler.GetStats)

	v1.Get("/leaderboard", lbHandler.GetLeaderboard)
	v1.Get("/leaderboard/enhanced", lbHandler.GetEnhancedLeaderboard)
	v1.Get("/leaderboard/filtered", lbHandler.GetFilteredLeaderboard)
	v1.Get("/leaderboard/stats", lbHandler.GetLeaderboardStats)
	v1.Get("/leaderboard/rank", guard.RequiredAuth(), lbHandler.GetUserRank)
	v1.Get("/leaderboard/top/:type", lbHandler.GetTopPerformers)

	user := v1.Group("/user", guard.RequiredAuth())
	user.Get("/profile", userHandler.GetProfile)
	user.Put("/profile", userHandler.UpdateProfile)
	user.Get("/stats", userHandler.GetUserStats)
	user.Post("/avatar", userHandler.UploadAvatar)

	v1.Get("/onboarding", onboardingHandler.GetConfig)
	v1.Post("/onboarding/complete", onboardingHandler.Complete)
	v1.Post("/onboarding/reset", onboardingHandler.Reset)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) recordMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			status = appErr.StatusCode
		} else if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = http.StatusInternalServerError
		}
	}

	RecordHTTPRequest(c.Route().Path, c.Method(), strconv.Itoa(status), time.Since(start))
	return err
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
