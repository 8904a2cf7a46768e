package config

import (
	"strings"

	"github.com/caarlos0/env/v9"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port string `env:"PORT" envDefault:"3000"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"leaderboard.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBHost      string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName      string `env:"DB_NAME"`
	DBPort      string `env:"DB_PORT" envDefault:"3306"`

	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	DefaultPointsPerMsg  int    `env:"DEFAULT_POINTS_PER_MSG" envDefault:"10"`
	DefaultPointsPerJoin int    `env:"DEFAULT_POINTS_PER_JOIN" envDefault:"50"`
	DemoCompanyID        string `env:"DEMO_COMPANY_ID" envDefault:"demo-company"`
	SeedDemo             bool   `env:"SEED_DEMO" envDefault:"true"`

	WhopAPIBaseURL   string `env:"WHOP_API_BASE_URL" envDefault:"https://api.whop.com/api/v2"`
	WhopClientID     string `env:"WHOP_CLIENT_ID"`
	WhopClientSecret string `env:"WHOP_CLIENT_SECRET"`
	WhopRedirectURI  string `env:"WHOP_REDIRECT_URI"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	BodyLimit        string   `env:"BODY_LIMIT" envDefault:"2M"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return &cfg, nil
}

// OAuthTokenURL is the provider token endpoint derived from the API base URL.
func (c *Config) OAuthTokenURL() string {
	return strings.TrimRight(c.WhopAPIBaseURL, "/") + "/oauth/token"
}
