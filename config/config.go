package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, populated from the
// environment. A .env file is honored when present (local development);
// real deployments inject variables directly.
type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	Environment string   `envconfig:"APP_ENV" default:"development"`
	AWSRegion   string   `envconfig:"AWS_REGION" default:"us-east-1"`
	S3Bucket    string   `envconfig:"S3_BUCKET_NAME"`
	RedisAddr   string   `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass   string   `envconfig:"REDIS_PASSWORD"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	Origins     []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// UnlockThreshold is the per-participant message count both sides
	// must reach before photo unlock becomes possible. The policy engine
	// owns the check; this owns the number.
	UnlockThreshold int `envconfig:"UNLOCK_THRESHOLD" default:"20"`

	// AIDailyQuota caps AI-suggested replies per user per UTC day.
	AIDailyQuota int `envconfig:"AI_REPLY_DAILY_QUOTA" default:"10"`

	// PushGatewayURL is the external push-delivery sink. Empty disables
	// dispatch (events still reach connected sockets).
	PushGatewayURL string `envconfig:"PUSH_GATEWAY_URL"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
