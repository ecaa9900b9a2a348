package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultModel              = "gemini-2.5-flash"
	DefaultHTTPPort           = "8080"
	DefaultMongoURI           = "mongodb://localhost:27017"
	DefaultMongoDB            = "agent_sessions"
	DefaultOpenWeatherBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	DefaultNominatimBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultNominatimUserAgent = "RicoAgent/1.0"
	DefaultSessionTTL         = 7 * 24 * time.Hour
)

// Config holds every setting the agent reads from the environment.
type Config struct {
	Model    string
	HTTPPort string
	LogLevel string

	UseVertexAI   bool
	CloudProject  string
	CloudLocation string

	SessionStore string
	MongoURI     string
	MongoDB      string
	SessionTTL   time.Duration

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	NominatimBaseURL   string
	NominatimUserAgent string
}

// Load reads the nearest .env file (if any) into the process environment and
// returns the resulting configuration.
func Load() *Config {
	LoadDotEnv()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		Model:    String("MODEL", DefaultModel),
		HTTPPort: String("HTTP_PORT", DefaultHTTPPort),
		LogLevel: String("LOG_LEVEL", "info"),

		UseVertexAI:   Bool("GOOGLE_GENAI_USE_VERTEXAI", false),
		CloudProject:  String("GOOGLE_CLOUD_PROJECT", ""),
		CloudLocation: String("GOOGLE_CLOUD_LOCATION", "us-central1"),

		SessionStore: strings.ToLower(String("SESSION_STORE", "mongodb")),
		MongoURI:     String("MONGODB_URI", DefaultMongoURI),
		MongoDB:      String("MONGODB_DB", DefaultMongoDB),
		SessionTTL:   Duration("SESSION_TTL", DefaultSessionTTL),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: String("OPENWEATHER_BASE_URL", DefaultOpenWeatherBaseURL),

		NominatimBaseURL:   String("NOMINATIM_BASE_URL", DefaultNominatimBaseURL),
		NominatimUserAgent: String("NOMINATIM_USER_AGENT", DefaultNominatimUserAgent),
	}
}

// LoadDotEnv walks from the working directory up to the filesystem root and
// loads the first .env found. Variables already set in the environment win.
func LoadDotEnv() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				logrus.WithField("module", "config").Warnf("load %s: %v", path, err)
				return ""
			}
			logrus.WithField("module", "config").Debugf("loaded %s", path)
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func String(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func Bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func Duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
