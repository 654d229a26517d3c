package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreDynamo   = "dynamo"
)

// Mail drivers accepted by MAIL_DRIVER.
const (
	MailResend = "resend"
	MailSMTP   = "smtp"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string   `env:"APP_PORT" envDefault:"3000"`
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	AppBaseURL     string   `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	StoreDriver  string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DynamoTables DynamoTables

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	Storage Storage

	MailDriver   string `env:"MAIL_DRIVER" envDefault:"resend"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"Campus Events <noreply@campus-events.dev>"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	JWTPrivateKeyPath   string        `env:"JWT_PRIVATE_KEY_PATH" envDefault:"./private_key.pem"`
	JWTPublicKeyPath    string        `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./public_key.pem"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"campus_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	OAuth          OAuth
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users        string `env:"DYNAMO_TABLE_USERS" envDefault:"users"`
	Clubs        string `env:"DYNAMO_TABLE_CLUBS" envDefault:"clubs"`
	Events       string `env:"DYNAMO_TABLE_EVENTS" envDefault:"events"`
	PendingClubs string `env:"DYNAMO_TABLE_PENDING_CLUBS" envDefault:"pending_clubs"`
	ClubOTPs     string `env:"DYNAMO_TABLE_CLUB_ACCESS_OTPS" envDefault:"club_access_otps"`
}

// Storage configures the S3-compatible object store used by the upload relay.
type Storage struct {
	EndpointURL    string   `env:"STORAGE_ENDPOINT_URL"`
	PublicURL      string   `env:"STORAGE_PUBLIC_URL"`
	Buckets        []string `env:"STORAGE_BUCKETS" envDefault:"event-images,club-logos,avatars" envSeparator:","`
	DefaultBucket  string   `env:"STORAGE_DEFAULT_BUCKET" envDefault:"event-images"`
	PlaceholderURL string   `env:"UPLOAD_PLACEHOLDER_URL" envDefault:"https://placehold.co/800x450?text=Campus+Event"`
}

// OAuth configures the authorization-code flow against the hosted auth provider.
type OAuth struct {
	ClientID     string   `env:"OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	AuthURL      string   `env:"OAUTH_AUTH_URL"`
	TokenURL     string   `env:"OAUTH_TOKEN_URL"`
	UserInfoURL  string   `env:"OAUTH_USERINFO_URL"`
	RedirectURL  string   `env:"OAUTH_REDIRECT_URL" envDefault:"http://localhost:3000/auth/callback"`
	Scopes       []string `env:"OAUTH_SCOPES" envDefault:"openid,email,profile" envSeparator:","`
}

// Enabled reports whether enough of the OAuth config is present to run the flow.
func (o OAuth) Enabled() bool {
	return o.ClientID != "" && o.AuthURL != "" && o.TokenURL != "" && o.UserInfoURL != ""
}

// StorageEnabled reports whether uploads can reach object storage.
func (c *Config) StorageEnabled() bool {
	return c.Storage.PublicURL != "" && (c.Storage.EndpointURL != "" || c.AWSAccessKeyID != "")
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreDynamo:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.MailDriver {
	case MailResend, MailSMTP:
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", cfg.MailDriver)
	}
	return &cfg, nil
}
