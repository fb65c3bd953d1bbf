package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nijaru/autocaption/layout"
	"github.com/nijaru/autocaption/mailer"
	"github.com/nijaru/autocaption/orchestrator"
	"github.com/nijaru/autocaption/poller"
	"github.com/nijaru/autocaption/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Gateway server
	ServerPort        string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RateLimit         int
	RateLimitInterval time.Duration

	// Captioning backend
	APIRoot         string
	Contract        string
	SubmitSignedURL bool
	StepTimeout     time.Duration
	Poll            poller.Config

	NotifyURL string
	Preview   layout.Config
	SMTP      mailer.Config
	Storage   storage.Config

	DBPath    string
	LogDir    string
	LogLevel  string
	LogFormat string
}

// Load reads a .env file when one exists, then the environment.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		logrus.WithError(err).Warn("Could not load .env file")
	}
	return LoadConfig()
}

func LoadConfig() *Config {
	poll := poller.DefaultConfig()
	preview := layout.DefaultConfig()

	return &Config{
		ServerPort:        GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit:         getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),

		APIRoot:         strings.TrimRight(GetEnv("API_ROOT", "http://localhost:8000"), "/"),
		Contract:        GetEnv("BACKEND_CONTRACT", string(orchestrator.ContractAsync)),
		SubmitSignedURL: getEnvAsBool("SUBMIT_SIGNED_URL", false),
		StepTimeout:     getEnvAsDuration("STEP_TIMEOUT", 2*time.Minute),
		Poll: poller.Config{
			Interval:       getEnvAsDuration("POLL_INTERVAL", poll.Interval),
			Timeout:        getEnvAsDuration("POLL_TIMEOUT", poll.Timeout),
			MaxFailures:    getEnvAsInt("POLL_MAX_FAILURES", poll.MaxFailures),
			InitialBackoff: poll.InitialBackoff,
			MaxBackoff:     poll.MaxBackoff,
		},

		NotifyURL: GetEnv("NOTIFY_URL", "http://localhost:8080/api/email"),
		Preview: layout.Config{
			ReferenceWidth:  getEnvAsInt("PREVIEW_REFERENCE_WIDTH", preview.ReferenceWidth),
			ReferenceHeight: getEnvAsInt("PREVIEW_REFERENCE_HEIGHT", preview.ReferenceHeight),
			CharWidthFactor: preview.CharWidthFactor,
			MaxWidthRatio:   preview.MaxWidthRatio,
			HaloSteps:       preview.HaloSteps,
		},
		SMTP: mailer.Config{
			Host:   GetEnv("SMTP_HOST", ""),
			Port:   getEnvAsInt("SMTP_PORT", mailer.DefaultPort),
			User:   GetEnv("SMTP_USER", ""),
			Pass:   GetEnv("SMTP_PASS", ""),
			Secure: getEnvAsBool("SMTP_SECURE", false),
			From:   GetEnv("SMTP_FROM", mailer.DefaultFrom),
		},
		Storage: storage.Config{
			Bucket:    GetEnv("S3_BUCKET", ""),
			Region:    GetEnv("S3_REGION", "us-east-1"),
			Endpoint:  GetEnv("S3_ENDPOINT", ""),
			AccessKey: GetEnv("S3_ACCESS_KEY", ""),
			SecretKey: GetEnv("S3_SECRET_KEY", ""),
			Prefix:    GetEnv("S3_PREFIX", storage.DefaultPrefix),
			PathStyle: getEnvAsBool("S3_PATH_STYLE", false),
			TTL:       getEnvAsDuration("PRESIGN_TTL", storage.DefaultTTL),
		},

		DBPath:    GetEnv("DB_PATH", "./data/jobs.db"),
		LogDir:    GetEnv("LOG_DIR", "./logs"),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "text"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.APIRoot == "" {
		return errors.New("API root is required")
	}
	if _, err := orchestrator.ParseContract(cfg.Contract); err != nil {
		return errors.Wrap(err, "backend contract")
	}
	if cfg.DBPath == "" {
		return errors.New("database path is required")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.StepTimeout <= 0 {
		return errors.New("step timeout must be greater than 0")
	}
	if cfg.Poll.Interval <= 0 {
		return errors.New("poll interval must be greater than 0")
	}
	if cfg.Poll.Timeout <= 0 {
		return errors.New("poll timeout must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("rate limit must be greater than 0")
	}
	return nil
}
