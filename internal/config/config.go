package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	AWS          AWSConfig          `yaml:"aws"`
	Cloudinary   CloudinaryConfig   `yaml:"cloudinary"`
	Media        MediaConfig        `yaml:"media"`
	Push         PushConfig         `yaml:"push"`
	Firebase     FirebaseConfig     `yaml:"firebase"`
	APNs         APNsConfig         `yaml:"apns"`
	Relationship RelationshipConfig `yaml:"relationship"`
	Schedule     ScheduleConfig     `yaml:"schedule"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region     string `yaml:"region"`
	S3Bucket   string `yaml:"s3_bucket"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	PublicURL  string `yaml:"public_url"`
	DisableSSL bool   `yaml:"disable_ssl"`
}

// CloudinaryConfig holds Cloudinary credentials
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

// MediaConfig selects the object store for photos and voice notes
type MediaConfig struct {
	Provider     string `yaml:"provider"` // s3 or cloudinary
	MaxUploadMiB int64  `yaml:"max_upload_mib"`
}

// PushConfig selects the push delivery provider
type PushConfig struct {
	Provider          string `yaml:"provider"` // fcm, apns or expo
	PruneUnregistered bool   `yaml:"prune_unregistered"`
}

// FirebaseConfig holds Firebase Cloud Messaging configuration
type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	ProjectID       string `yaml:"project_id"`
}

// APNsConfig holds token based APNs configuration
type APNsConfig struct {
	KeyFile    string `yaml:"key_file"`
	KeyID      string `yaml:"key_id"`
	TeamID     string `yaml:"team_id"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
}

// RelationshipConfig holds the couple-specific settings
type RelationshipConfig struct {
	Anniversary string `yaml:"anniversary"` // YYYY-MM-DD
	Timezone    string `yaml:"timezone"`
}

// ScheduleConfig holds the intervals of the periodic jobs
type ScheduleConfig struct {
	ReminderInterval  time.Duration `yaml:"reminder_interval"`
	ReminderLead      time.Duration `yaml:"reminder_lead"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	Retention         time.Duration `yaml:"retention"`
	MilestoneInterval time.Duration `yaml:"milestone_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads configuration from a YAML file, then applies defaults and
// environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, then applies defaults and environment
// overrides
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Media.Provider == "" {
		c.Media.Provider = "s3"
	}
	if c.Media.MaxUploadMiB == 0 {
		c.Media.MaxUploadMiB = 32
	}
	if c.Push.Provider == "" {
		c.Push.Provider = "fcm"
	}
	if c.Relationship.Timezone == "" {
		c.Relationship.Timezone = "UTC"
	}
	if c.Schedule.ReminderInterval == 0 {
		c.Schedule.ReminderInterval = time.Hour
	}
	if c.Schedule.ReminderLead == 0 {
		c.Schedule.ReminderLead = 2 * time.Hour
	}
	if c.Schedule.CleanupInterval == 0 {
		c.Schedule.CleanupInterval = 24 * time.Hour
	}
	if c.Schedule.Retention == 0 {
		c.Schedule.Retention = 7 * 24 * time.Hour
	}
	if c.Schedule.MilestoneInterval == 0 {
		c.Schedule.MilestoneInterval = 24 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// applyEnv lets secrets live outside the YAML file
func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.AWS.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&c.AWS.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Firebase.CredentialsFile, "FIREBASE_CREDENTIALS")
	setString(&c.APNs.KeyFile, "APNS_KEY_FILE")
	setString(&c.Push.Provider, "PUSH_PROVIDER")
	setString(&c.Log.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if _, err := c.Relationship.AnniversaryDate(); err != nil {
		return err
	}
	switch c.Push.Provider {
	case "fcm", "apns", "expo":
	default:
		return fmt.Errorf("unknown push provider %q", c.Push.Provider)
	}
	switch c.Media.Provider {
	case "s3", "cloudinary":
	default:
		return fmt.Errorf("unknown media provider %q", c.Media.Provider)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Location returns the configured time zone
func (r *RelationshipConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid relationship timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// AnniversaryDate parses the anniversary in the configured time zone
func (r *RelationshipConfig) AnniversaryDate() (time.Time, error) {
	if r.Anniversary == "" {
		return time.Time{}, fmt.Errorf("relationship anniversary is required")
	}
	loc, err := r.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation("2006-01-02", r.Anniversary, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relationship anniversary %q: %w", r.Anniversary, err)
	}
	return t, nil
}
