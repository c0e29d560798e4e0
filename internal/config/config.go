package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port          int           `yaml:"port" default:"8080"`
		Host          string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout   time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout  time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout   time.Duration `yaml:"idle_timeout" default:"60s"`
		MaxUploadSize int64         `yaml:"max_upload_size" default:"10485760"` // bytes
	} `yaml:"server"`

	Parser struct {
		BaseURL    string        `yaml:"base_url" default:"http://localhost:8000"`
		UploadPath string        `yaml:"upload_path" default:"/upload/"`
		UpdatePath string        `yaml:"update_path" default:"/update/"`
		Timeout    time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"parser"`

	Sessions struct {
		Store           string        `yaml:"store" default:"memory"` // memory or redis
		TTL             time.Duration `yaml:"ttl" default:"24h"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1h"`
	} `yaml:"sessions"`

	RateLimit struct {
		Enabled           bool `yaml:"enabled" default:"true"`
		RequestsPerMinute int  `yaml:"requests_per_minute" default:"120"`
		Burst             int  `yaml:"burst" default:"20"`
	} `yaml:"rate_limit"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.MaxUploadSize = 10 * 1024 * 1024

	config.Parser.BaseURL = "http://localhost:8000"
	config.Parser.UploadPath = "/upload/"
	config.Parser.UpdatePath = "/update/"
	config.Parser.Timeout = 120 * time.Second

	config.Sessions.Store = "memory"
	config.Sessions.TTL = 24 * time.Hour
	config.Sessions.CleanupInterval = 1 * time.Hour

	config.RateLimit.Enabled = true
	config.RateLimit.RequestsPerMinute = 120
	config.RateLimit.Burst = 20

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if maxUpload := os.Getenv("MAX_UPLOAD_SIZE"); maxUpload != "" {
		if size, err := strconv.ParseInt(maxUpload, 10, 64); err == nil {
			c.Server.MaxUploadSize = size
		}
	}

	if baseURL := os.Getenv("PARSER_BASE_URL"); baseURL != "" {
		c.Parser.BaseURL = baseURL
	}

	if uploadPath := os.Getenv("PARSER_UPLOAD_PATH"); uploadPath != "" {
		c.Parser.UploadPath = uploadPath
	}

	if updatePath := os.Getenv("PARSER_UPDATE_PATH"); updatePath != "" {
		c.Parser.UpdatePath = updatePath
	}

	if timeout := os.Getenv("PARSER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Parser.Timeout = d
		}
	}

	if store := os.Getenv("SESSION_STORE"); store != "" {
		c.Sessions.Store = store
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Sessions.TTL = d
		}
	}

	if interval := os.Getenv("SESSION_CLEANUP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Sessions.CleanupInterval = d
		}
	}

	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			c.RateLimit.Burst = n
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if d, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
