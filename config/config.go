package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// Maintenance mode
	UnderMaintenance     bool     // Forces maintenance mode regardless of per-site flags
	MaintenanceWhitelist []string // Path regexps that stay reachable under maintenance
	InternalIPs          []string // Client IPs that bypass maintenance mode
	// URL policy
	ForcedSecureURLs  []string // Path regexps that must be served over HTTPS
	AllowedSecureURLs []string // Path regexps allowed over HTTPS (everything else redirects to HTTP)
	CaseSensitiveURLs []string // Path regexps exempt from lowercase redirection
	StaticURL         string
	MediaURL          string
	// Legal documents
	ForceLegalAcceptance       bool
	ForcedLegalDocument        string // Identifier of the document every user must accept
	ForcedLegalDocumentVersion string // Optional fixed version of the forced document
	LegalAcceptanceURL         string
	LegalWhitelistURLs         []string // Path prefixes exempt from the acceptance gate
	ShowPreviousLegalVersions  bool
	// Site log
	LogMailAdminsLevel int // Mail admins for entries with level <= this value (0 disables)
	AdminEmails        []string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Other
	AppURL        string
	SessionSecret string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(sessionSecret, environment)

	// In development, generate a secure secret if none provided
	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	return &Config{
		ServerPort:                 getEnv("SERVER_PORT", "8080"),
		DBPath:                     getEnv("DB_PATH", "db/app.db"),
		Environment:                environment,
		UnderMaintenance:           getEnvBool("UNDER_MAINTENANCE", false),
		MaintenanceWhitelist:       getEnvList("MAINTENANCE_WHITELIST", nil),
		InternalIPs:                getEnvList("INTERNAL_IPS", []string{"127.0.0.1", "::1"}),
		ForcedSecureURLs:           getEnvList("FORCED_SECURE_URLS", nil),
		AllowedSecureURLs:          getEnvList("ALLOWED_SECURE_URLS", []string{`^/.*$`}),
		CaseSensitiveURLs:          getEnvList("CASE_SENSITIVE_URLS", nil),
		StaticURL:                  getEnv("STATIC_URL", "/static/"),
		MediaURL:                   getEnv("MEDIA_URL", "/media/"),
		ForceLegalAcceptance:       getEnvBool("FORCE_LEGAL_ACCEPTANCE", false),
		ForcedLegalDocument:        getEnv("FORCED_LEGAL_DOCUMENT", ""),
		ForcedLegalDocumentVersion: getEnv("FORCED_LEGAL_DOCUMENT_VERSION", ""),
		LegalAcceptanceURL:         getEnv("LEGAL_ACCEPTANCE_URL", "/legal/accept/"),
		LegalWhitelistURLs:         getEnvList("LEGAL_WHITELIST_URLS", nil),
		ShowPreviousLegalVersions:  getEnvBool("SHOW_PREVIOUS_LEGAL_VERSIONS", true),
		LogMailAdminsLevel:         getEnvInt("LOG_MAIL_ADMINS_LEVEL", 0),
		AdminEmails:                getEnvList("ADMIN_EMAILS", nil),
		ResendAPIKey:               getEnv("RESEND_API_KEY", ""),
		EmailFrom:                  getEnv("EMAIL_FROM", "noreply@example.org"),
		EmailFromName:              getEnv("EMAIL_FROM_NAME", "Site Tools"),
		EmailTestMode:              getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AppURL:                     getEnv("APP_URL", "http://localhost:8080"),
		SessionSecret:              sessionSecret,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinSessionSecretLength {
			log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSessionSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
