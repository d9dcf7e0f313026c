package app

import (
	"time"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	Port           string
	ServiceName    string
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		Port:           utils.GetEnv("PORT", "8080", log),
		ServiceName:    utils.GetEnv("SERVICE_NAME", "paf-backend", log),
		Environment:    utils.GetEnv("ENVIRONMENT", "development", log),
		Version:        utils.GetEnv("SERVICE_VERSION", "dev", log),
	}
}
