package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	Google     GoogleConfig     `yaml:"google"`
	Log        LogConfig        `yaml:"log"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Credits    CreditsConfig    `yaml:"credits"`
	Billing    BillingConfig    `yaml:"billing"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Debug      bool             `yaml:"debug"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	SiteDomain string `yaml:"site_domain"` // public domain used in offer links
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains notification delivery settings
type SendGridConfig struct {
	APIKey        string `yaml:"api_key"`
	FromEmail     string `yaml:"from_email"`
	FromName      string `yaml:"from_name"`
	InterviewFrom string `yaml:"interview_from"` // sender for interview traffic
}

// GoogleConfig contains meeting-provider settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"` // service account JSON
	CalendarID      string `yaml:"calendar_id"`
	Mock            bool   `yaml:"mock"` // use the in-memory provider (dev/tests)
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulingConfig contains the booking protocol constants. The defaults
// match production behavior; they live in configuration so environments can
// tune them without code change.
type SchedulingConfig struct {
	Secret               string `yaml:"secret"`               // candidate scheduling link signing key
	OfferExpiryMinutes   int    `yaml:"offer_expiry_minutes"` // offer token lifetime
	CandidateLinkDays    int    `yaml:"candidate_link_days"`  // candidate self-scheduling link lifetime
	SlotBufferMinutes    int    `yaml:"slot_buffer_minutes"`  // mandatory gap around a booked hour
	MinSlotMinutes       int    `yaml:"min_slot_minutes"`     // residual slots below this are dropped
	InterviewMinutes     int    `yaml:"interview_minutes"`    // booked window length
	LateCancelWindowHrs  int    `yaml:"late_cancel_window_hours"`
	ExperienceMarginMths int    `yaml:"experience_margin_months"` // interviewer must exceed candidate by this
}

// CreditBand maps an experience band to its credit cost. MaxYears == 0
// marks the open-ended top band. An exact year mark with zero months belongs
// to the lower band.
type CreditBand struct {
	Label    string `yaml:"label"`
	MaxYears int    `yaml:"max_years"`
	Credits  int32  `yaml:"credits"`
}

// ConversionPolicy maps one credit to a monetary amount.
type ConversionPolicy struct {
	Currency string `yaml:"currency"`
	Rate     int64  `yaml:"rate"` // amount per credit
}

// CreditsConfig contains the required-credit table and the per-country
// conversion registry.
type CreditsConfig struct {
	Bands          []CreditBand                `yaml:"bands"`
	Conversion     map[string]ConversionPolicy `yaml:"conversion"`
	DefaultCountry string                      `yaml:"default_country"`
}

// CreditRate is an (experience band, amount) pair
type CreditRate struct {
	Label    string `yaml:"label"`
	MaxYears int    `yaml:"max_years"`
	Amount   int64  `yaml:"amount"`
}

// BillingConfig contains penalty and payout amounts
type BillingConfig struct {
	ClientLateRescheduleAmount      int64 `yaml:"client_late_reschedule_amount"`
	InterviewerLateRescheduleAmount int64 `yaml:"interviewer_late_reschedule_amount"`
	ClientFeedbackAmount            int64 `yaml:"client_feedback_amount"`
	DueDateOffsetDays               int   `yaml:"due_date_offset_days"`
	// InterviewerRates maps experience bands to the interviewer payout for
	// a completed round, keyed like the credit bands.
	InterviewerRates []CreditRate `yaml:"interviewer_rates"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireAvailability string `yaml:"expire_availability"`
	ExpireCredits      string `yaml:"expire_credits"`
	MarkOverdueBilling string `yaml:"mark_overdue_billing"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// Google
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Google.CredentialsFile = val
	}

	// Scheduling
	if val := os.Getenv("SCHEDULING_SECRET"); val != "" {
		c.Scheduling.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("SITE_DOMAIN"); val != "" {
		c.Server.SiteDomain = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Scheduling validation and defaults
	if c.Scheduling.Secret == "" {
		return fmt.Errorf("scheduling secret is required")
	}
	if len(c.Scheduling.Secret) < 32 {
		return fmt.Errorf("scheduling secret must be at least 32 characters")
	}
	if c.Scheduling.OfferExpiryMinutes == 0 {
		c.Scheduling.OfferExpiryMinutes = 60
	}
	if c.Scheduling.CandidateLinkDays == 0 {
		c.Scheduling.CandidateLinkDays = 7
	}
	if c.Scheduling.SlotBufferMinutes == 0 {
		c.Scheduling.SlotBufferMinutes = 60
	}
	if c.Scheduling.MinSlotMinutes == 0 {
		c.Scheduling.MinSlotMinutes = 60
	}
	if c.Scheduling.InterviewMinutes == 0 {
		c.Scheduling.InterviewMinutes = 60
	}
	if c.Scheduling.LateCancelWindowHrs == 0 {
		c.Scheduling.LateCancelWindowHrs = 3
	}
	if c.Scheduling.ExperienceMarginMths == 0 {
		c.Scheduling.ExperienceMarginMths = 24
	}

	// Credits defaults
	if len(c.Credits.Bands) == 0 {
		c.Credits.Bands = []CreditBand{
			{Label: "0-4", MaxYears: 4, Credits: 8},
			{Label: "4-7", MaxYears: 7, Credits: 10},
			{Label: "7-10", MaxYears: 10, Credits: 12},
			{Label: "10+", MaxYears: 0, Credits: 15},
		}
	}
	if len(c.Credits.Conversion) == 0 {
		c.Credits.Conversion = map[string]ConversionPolicy{
			"IN": {Currency: "INR", Rate: 25},
			"US": {Currency: "USD", Rate: 1},
		}
	}
	if c.Credits.DefaultCountry == "" {
		c.Credits.DefaultCountry = "IN"
	}
	if _, ok := c.Credits.Conversion[c.Credits.DefaultCountry]; !ok {
		return fmt.Errorf("default country %q has no conversion policy", c.Credits.DefaultCountry)
	}

	// Billing defaults
	if c.Billing.ClientLateRescheduleAmount == 0 {
		c.Billing.ClientLateRescheduleAmount = 1000
	}
	if c.Billing.InterviewerLateRescheduleAmount == 0 {
		c.Billing.InterviewerLateRescheduleAmount = 500
	}
	if c.Billing.ClientFeedbackAmount == 0 {
		c.Billing.ClientFeedbackAmount = 3000
	}
	if c.Billing.DueDateOffsetDays == 0 {
		c.Billing.DueDateOffsetDays = 10
	}
	if len(c.Billing.InterviewerRates) == 0 {
		c.Billing.InterviewerRates = []CreditRate{
			{Label: "0-4", MaxYears: 4, Amount: 1400},
			{Label: "4-7", MaxYears: 7, Amount: 1800},
			{Label: "7-10", MaxYears: 10, Amount: 2200},
			{Label: "10+", MaxYears: 0, Amount: 2500},
		}
	}

	// Scheduler defaults
	if c.Scheduler.ExpireAvailability == "" {
		c.Scheduler.ExpireAvailability = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.ExpireCredits == "" {
		c.Scheduler.ExpireCredits = "0 30 1 * * *" // 1:30 AM UTC
	}
	if c.Scheduler.MarkOverdueBilling == "" {
		c.Scheduler.MarkOverdueBilling = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
