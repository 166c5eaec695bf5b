package app

import (
	"time"

	"github.com/tdobson/snowy-sub000/internal/pkg/env"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr    string
	LockTTL      time.Duration
	TrackerDir   string
	SweepBudget  time.Duration
	SweepWorkers int
}

func LoadConfig(log *logger.Logger) Config {
	port := env.GetEnv("PORT", "8080", log)
	jwtSecretKey := env.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := env.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	redisAddr := env.GetEnv("REDIS_ADDR", "", log)
	lockTTLSeconds := env.GetEnvAsInt("IMPORT_LOCK_TTL", 30, log)
	trackerDir := env.GetEnv("TRACKER_DIR", "", log)
	sweepBudgetSeconds := env.GetEnvAsInt("SWEEP_BUDGET", 240, log)
	sweepWorkers := env.GetEnvAsInt("SWEEP_WORKERS", 2, log)

	return Config{
		Port:           port,
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		RedisAddr:      redisAddr,
		LockTTL:        time.Duration(lockTTLSeconds) * time.Second,
		TrackerDir:     trackerDir,
		SweepBudget:    time.Duration(sweepBudgetSeconds) * time.Second,
		SweepWorkers:   sweepWorkers,
	}
}
