package app

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/mail"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
)

// Identity provider names accepted by IDENTITY_PROVIDER.
const (
	ProviderLocal    = "local"
	ProviderFirebase = "firebase"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	DatabaseFile         string        // Path to the SQLite notes database (default: ./notes.db)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	IdentityProvider string        // local or firebase (default: local)
	IdentityTimeout  time.Duration // Timeout for every provider call (default: 10s)
	Firebase         FirebaseConfig

	SendEmailURL string // Optional: webhook that delivers email
	EmailFrom    string // Sender address (default: email@email.com)
	SMTPAddr     string // Optional: host:port of an SMTP relay
	SMTPUsername string
	SMTPPassword string

	TLSDomain   string // Optional: serve HTTPS for this domain with Let's Encrypt
	TLSCacheDir string // Certificate cache (default: ./certs)

	PublicOrigin string // Optional: scheme://host emailed sign-in links point at (default: https://TLSDomain)
}

// FirebaseConfig holds the project settings and service-account key. The
// key is either one base64 JSON document in Credentials or the discrete
// fields of that document.
type FirebaseConfig struct {
	ProjectID   string
	WebAPIKey   string
	Credentials string

	Type                    string
	PrivateKeyID            string
	PrivateKey              string // PEM, base64 or with escaped newlines
	ClientEmail             string
	ClientID                string
	AuthURI                 string
	TokenURI                string
	AuthProviderX509CertURL string
	ClientX509CertURL       string
	UniverseDomain          string
}

func LoadConfig() Config {
	return Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		DatabaseFile:         getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		IdentityProvider: getEnvOrDefault("IDENTITY_PROVIDER", ProviderLocal),
		IdentityTimeout:  getEnvDurationOrDefault("IDENTITY_TIMEOUT", 10*time.Second),
		Firebase: FirebaseConfig{
			ProjectID:               os.Getenv("FIREBASE_PROJECT_ID"),
			WebAPIKey:               os.Getenv("FIREBASE_WEB_API_KEY"),
			Credentials:             os.Getenv("FIREBASE_CREDENTIALS"),
			Type:                    getEnvOrDefault("FIREBASE_TYPE", "service_account"),
			PrivateKeyID:            os.Getenv("FIREBASE_PRIVATE_KEY_ID"),
			PrivateKey:              os.Getenv("FIREBASE_PRIVATE_KEY"),
			ClientEmail:             os.Getenv("FIREBASE_CLIENT_EMAIL"),
			ClientID:                os.Getenv("FIREBASE_CLIENT_ID"),
			AuthURI:                 getEnvOrDefault("FIREBASE_AUTH_URI", "https://accounts.google.com/o/oauth2/auth"),
			TokenURI:                getEnvOrDefault("FIREBASE_TOKEN_URI", "https://oauth2.googleapis.com/token"),
			AuthProviderX509CertURL: getEnvOrDefault("FIREBASE_AUTH_PROVIDER_X509_CERT_URL", "https://www.googleapis.com/oauth2/v1/certs"),
			ClientX509CertURL:       os.Getenv("FIREBASE_CLIENT_X509_CERT_URL"),
			UniverseDomain:          getEnvOrDefault("FIREBASE_UNIVERSE_DOMAIN", "googleapis.com"),
		},

		SendEmailURL: os.Getenv("SEND_EMAIL"),
		EmailFrom:    getEnvOrDefault("EMAIL_FROM", mail.DefaultFrom),
		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		TLSDomain:   os.Getenv("TLS_DOMAIN"),
		TLSCacheDir: getEnvOrDefault("TLS_CACHE_DIR", "certs"),

		PublicOrigin: strings.TrimRight(os.Getenv("PUBLIC_ORIGIN"), "/"),
	}
}

// LinkOrigin is the origin sign-in links are built on. Empty means the
// origin of the request that asked for the link.
func (c Config) LinkOrigin() string {
	if c.PublicOrigin != "" {
		return c.PublicOrigin
	}
	if c.TLSDomain != "" {
		return "https://" + c.TLSDomain
	}
	return ""
}

// AuthorizedDomains are the hosts the local provider may send links to.
func (c Config) AuthorizedDomains() []string {
	origin := c.LinkOrigin()
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	return []string{u.Hostname()}
}

// CredentialsJSON returns the service-account key document.
func (c FirebaseConfig) CredentialsJSON() ([]byte, error) {
	if c.Credentials != "" {
		b, err := base64.StdEncoding.DecodeString(c.Credentials)
		if err != nil {
			return nil, fmt.Errorf("FIREBASE_CREDENTIALS: %w", err)
		}
		return b, nil
	}

	if c.PrivateKey == "" || c.ClientEmail == "" {
		return nil, errors.New("firebase credentials: set FIREBASE_CREDENTIALS or FIREBASE_PRIVATE_KEY and FIREBASE_CLIENT_EMAIL")
	}
	pem, err := cryptox.DecodePEMEnv(c.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("FIREBASE_PRIVATE_KEY: %w", err)
	}

	return json.Marshal(map[string]string{
		"type":                        c.Type,
		"project_id":                  c.ProjectID,
		"private_key_id":              c.PrivateKeyID,
		"private_key":                 string(pem),
		"client_email":                c.ClientEmail,
		"client_id":                   c.ClientID,
		"auth_uri":                    c.AuthURI,
		"token_uri":                   c.TokenURI,
		"auth_provider_x509_cert_url": c.AuthProviderX509CertURL,
		"client_x509_cert_url":        c.ClientX509CertURL,
		"universe_domain":             c.UniverseDomain,
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
