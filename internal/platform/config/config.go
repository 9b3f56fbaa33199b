package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName       string
	HTTPPort          string
	PostgresDSN       string
	KafkaBrokers      []string
	ReferenceTimezone string

	EnableMilestoneBadges bool
}

func Load() (Config, error) {
	// Best-effort: a missing .env file just means plain process env.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "tollyhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	timezone := strings.TrimSpace(os.Getenv("REFERENCE_TIMEZONE"))
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:       service,
		HTTPPort:          port,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:      brokers,
		ReferenceTimezone: timezone,

		EnableMilestoneBadges: envBool("ENABLE_MILESTONE_BADGES", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
