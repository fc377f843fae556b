package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

const (
	DefaultPort     = 3000
	ProdEnvironment = "PROD"
)

type Config struct {
	Token         string
	ApplicationID snowflake.ID
	GuildID       snowflake.ID
	// TrustedRoleID gates every command.
	TrustedRoleID     snowflake.ID
	BirthdayChannelID snowflake.ID
	BirthdayLocation  *time.Location
	DatabaseURL       string
	Port              int
	SentryDSN         string
	Environment       string
	DebugLogFile      string
}

func (c *Config) Prod() bool {
	return c.Environment == ProdEnvironment
}

// LoadEnv reads the optional .env file and then the process environment.
func LoadEnv(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load env file: %w", err)
	}
	return Load(os.Getenv)
}

// Load builds the configuration from getenv. Every problem is reported in the
// returned error, not only the first one.
func Load(getenv func(string) string) (*Config, error) {
	var errs []error
	required := func(key string) string {
		value := getenv(key)
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is not set", key))
		}
		return value
	}
	id := func(key string) snowflake.ID {
		value := required(key)
		if value == "" {
			return 0
		}
		parsed, err := snowflake.Parse(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s is not a valid id: %w", key, err))
		}
		return parsed
	}

	cfg := &Config{
		Token:             required("DISCORD_TOKEN"),
		ApplicationID:     id("DISCORD_APPLICATION_ID"),
		GuildID:           id("DISCORD_GUILD_ID"),
		TrustedRoleID:     id("TRUSTED_ROLE_ID"),
		BirthdayChannelID: id("BIRTHDAY_CHANNEL_ID"),
		DatabaseURL:       required("DATABASE_URL"),
		Port:              DefaultPort,
		SentryDSN:         getenv("SENTRY_DSN"),
		Environment:       getenv("BOT_ENVIRONMENT"),
		DebugLogFile:      getenv("LOG_DEBUG_FILE"),
		BirthdayLocation:  time.Local,
	}

	if port := getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil || parsed <= 0 || parsed > 65535 {
			errs = append(errs, fmt.Errorf("PORT %q is not a valid port", port))
		} else {
			cfg.Port = parsed
		}
	}
	if tz := getenv("BIRTHDAY_TIMEZONE"); tz != "" {
		location, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Errorf("BIRTHDAY_TIMEZONE %q is not a valid time zone: %w", tz, err))
		} else {
			cfg.BirthdayLocation = location
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
