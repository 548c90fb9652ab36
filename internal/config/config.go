package config

import (
	"strings"
	"time"
)

// Config is the server configuration
type Config struct {
	Port          string
	RedisAddr     string
	JWTSecret     string
	SessionTTL    time.Duration
	LogLevel      string
	CORSOrigins   string
	PublicOrigin  string
	MinDisplay    time.Duration
	MessageEvery  time.Duration
	ParticleCount int
}

// Load reads the server configuration from the environment
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		RedisAddr:     redisAddr(getEnvOrDefault("REDIS_URI", "redis:6379")),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", "change-me-in-production"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MIN", 30)) * time.Minute,
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		CORSOrigins:   getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),
		PublicOrigin:  strings.TrimRight(getEnvOrDefault("PUBLIC_ORIGIN", "http://localhost:8080"), "/"),
		MinDisplay:    time.Duration(getEnvInt("MIN_DISPLAY_MS", 6000)) * time.Millisecond,
		MessageEvery:  time.Duration(getEnvInt("MESSAGE_INTERVAL_MS", 1500)) * time.Millisecond,
		ParticleCount: getEnvInt("PARTICLE_COUNT", 3000),
	}
}

// redisAddr removes a redis:// prefix if present
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}
