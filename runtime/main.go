package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/JuniorCarti/aws-restart-tracker-api/middleware"
	"github.com/JuniorCarti/aws-restart-tracker-api/services"
)

// @title AWS re/Start Progress Tracker API
// @version 1.0
// @description Course progress tracking, scoring and leaderboards for AWS re/Start cohorts.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqliteService{},
		&services.PostgresService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.JWTService{},
		&middleware.AuthMiddleware{},
		&services.RateLimitService{},

		&services.LeaderboardService{},
		&services.ProgressService{},
		&services.OnboardingService{},
		&services.AuthService{},
		&services.MediaService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Service container init failed")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service container exited")
		return
	}
}
