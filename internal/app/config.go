package app

import (
	"time"

	"github.com/yungbote/readbridge-backend/internal/platform/logger"
	"github.com/yungbote/readbridge-backend/internal/utils"
)

type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	HTTPAddr       string
	AllowedOrigins string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Path to a yaml tuning-policy file; empty means built-in defaults.
	PolicyPath string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "readbridge-backend", log),
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
		HTTPAddr:        utils.GetEnv("HTTP_ADDR", ":8080", log),
		AllowedOrigins:  utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		PolicyPath:      utils.GetEnv("SCORING_POLICY_PATH", "", log),
	}
}
