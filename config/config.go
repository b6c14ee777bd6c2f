package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver string // postgres or sqlite
	DBURL    string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MinAppVersion              string
	VersionComparison          string // semver or lexicographic
	SingleRestaurantPerManager bool
	Location                   *time.Location
	CORSOrigins                []string

	DigestEnabled     bool
	DigestCron        string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

func (c Config) String() string {
	return fmt.Sprintf(
		"Port: %s | LogLevel: %s | DBDriver: %s | MinAppVersion: %s | VersionComparison: %s | SingleRestaurantPerManager: %t | TimeZone: %s | DigestEnabled: %t | DigestCron: %s",
		c.Port,
		c.LogLevel,
		c.DBDriver,
		c.MinAppVersion,
		c.VersionComparison,
		c.SingleRestaurantPerManager,
		c.Location,
		c.DigestEnabled,
		c.DigestCron,
	)
}

// TwilioConfigured reports whether SMS credentials are present.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access.ttl", "5m")
	v.SetDefault("jwt.refresh.ttl", "24h")
	v.SetDefault("min.app.version", "2.0.0")
	v.SetDefault("version.comparison", "semver")
	v.SetDefault("single.restaurant.per.manager", false)
	v.SetDefault("time.zone", "UTC")
	v.SetDefault("cors.origins", "http://localhost:3000")
	v.SetDefault("digest.enabled", false)
	v.SetDefault("digest.cron", "0 14 * * 1-5")
	v.SetDefault("twilio.account.sid", "")
	v.SetDefault("twilio.auth.token", "")
	v.SetDefault("twilio.phone.number", "")
}

// Load reads an optional .env file and then the process environment.
// Keys are looked up with dots replaced by underscores, so "db.url" is DB_URL.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, errors.Wrap(err, "failed to load env file")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("time.zone"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid TIME_ZONE %q", v.GetString("time.zone"))
	}

	config := &Config{
		Port:                       v.GetString("port"),
		LogLevel:                   v.GetString("log.level"),
		DBDriver:                   strings.ToLower(v.GetString("db.driver")),
		DBURL:                      v.GetString("db.url"),
		JWTSecret:                  v.GetString("jwt.secret"),
		AccessTokenTTL:             v.GetDuration("jwt.access.ttl"),
		RefreshTokenTTL:            v.GetDuration("jwt.refresh.ttl"),
		MinAppVersion:              v.GetString("min.app.version"),
		VersionComparison:          strings.ToLower(v.GetString("version.comparison")),
		SingleRestaurantPerManager: v.GetBool("single.restaurant.per.manager"),
		Location:                   loc,
		CORSOrigins:                splitList(v.GetString("cors.origins")),
		DigestEnabled:              v.GetBool("digest.enabled"),
		DigestCron:                 v.GetString("digest.cron"),
		TwilioAccountSID:           v.GetString("twilio.account.sid"),
		TwilioAuthToken:            v.GetString("twilio.auth.token"),
		TwilioPhoneNumber:          v.GetString("twilio.phone.number"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBURL == "" {
		if c.DBDriver != "sqlite" {
			return errors.New("DB_URL not set")
		}
		c.DBURL = "lunchvote.db"
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.VersionComparison {
	case "semver", "lexicographic":
	default:
		return errors.Errorf("unsupported VERSION_COMPARISON %q", c.VersionComparison)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
