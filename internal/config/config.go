package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Subscriber directory (Google Sheets).
	SheetsAPIKey   string
	SpreadsheetID  string
	SheetName      string
	SheetsEndpoint string // empty in prod, set to a stub URL in tests/dev

	// Access code store: "memory" (single instance) or "dynamo" (shared).
	CodeStoreBackend string

	// Session tokens.
	SessionSecret string
	SessionTTL    int // hours

	// Delivery provider: "brevo" | "smtp" | "sns".
	DeliveryProvider string
	BrevoEndpoint    string
	BrevoAPIKey      string
	SenderName       string
	SenderEmail      string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	AdminAPIKey    string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	AccessCodes string
	Reports     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		SheetsAPIKey:   getEnv("SHEETS_API_KEY", ""),
		SpreadsheetID:  getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetName:      getEnv("SHEETS_SHEET_NAME", "Assinantes"),
		SheetsEndpoint: getEnv("SHEETS_ENDPOINT", ""),

		CodeStoreBackend: getEnv("CODE_STORE_BACKEND", "memory"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvInt("SESSION_TTL_HOURS", 2),

		DeliveryProvider: getEnv("DELIVERY_PROVIDER", "brevo"),
		BrevoEndpoint:    getEnv("BREVO_ENDPOINT", "https://api.brevo.com/v3/smtp/email"),
		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		SenderName:       getEnv("SENDER_NAME", "Research Desk"),
		SenderEmail:      getEnv("SENDER_EMAIL", "noreply@example.com"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			AccessCodes: getEnv("DYNAMO_TABLE_ACCESS_CODES", "access_codes"),
			Reports:     getEnv("DYNAMO_TABLE_REPORTS", "reports"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "research-reports"),

		AdminAPIKey:    getEnv("ADMIN_API_KEY", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
