package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel   int    `env:"LOG_LEVEL" envDefault:"0"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	HTTP       HTTP   `envPrefix:"HTTP_"`
	JWT        JWT    `envPrefix:"JWT_"`
	AWS        AWS    `envPrefix:"AWS_"`
	Events     Events `envPrefix:"EVENTS_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8081"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// JWT contains token signing parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// AWS contains DynamoDB and SNS parameters. Endpoint is set only for
// LocalStack; when empty the default AWS endpoints are used.
type AWS struct {
	Region     string `env:"REGION" envDefault:"eu-central-1"`
	Endpoint   string `env:"ENDPOINT"`
	AccessKey  string `env:"ACCESS_KEY_ID"`
	SecretKey  string `env:"SECRET_ACCESS_KEY"`
	UsersTable string `env:"DYNAMODB_USERS_TABLE" envDefault:"Users"`
	TopicARN   string `env:"SNS_USER_TOPIC_ARN" envDefault:"arn:aws:sns:eu-central-1:000000000000:user-events"`
}

// Events contains event publishing parameters.
type Events struct {
	Enabled     bool          `env:"ENABLED" envDefault:"true"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
