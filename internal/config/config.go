// Package config assembles runtime settings from the environment, with a
// .env file loaded first when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nexus/internal/dispatch"
)

// Config carries everything the CLI needs that is not a flag.
type Config struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string

	PhoneNumber  string
	EmailAddress string
	TicketTeam   string
	CallDelay    time.Duration
	MaxCalls     int

	StoreDSN string
}

// Load reads .env (ignored when absent) and then the process environment.
// Missing values stay zero; the dispatcher applies its own defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		// Empty means "backend default": the CLI picks the model per
		// whichever provider key is present.
		Model: os.Getenv("NEXUS_MODEL"),

		PhoneNumber:  os.Getenv("DISPATCH_PHONE_NUMBER"),
		EmailAddress: os.Getenv("DISPATCH_EMAIL_ADDRESS"),
		TicketTeam:   os.Getenv("LINEAR_TEAM"),
		CallDelay:    envSeconds("CALL_DELAY_SECONDS"),
		MaxCalls:     envInt("MAX_CALLS_PER_DISPATCH"),

		StoreDSN: os.Getenv("ACTION_STORE_PG_DSN"),
	}
}

// Dispatch maps the loaded settings onto a dispatcher config.
func (c Config) Dispatch() dispatch.Config {
	return dispatch.Config{
		PhoneNumber:         c.PhoneNumber,
		EmailAddress:        c.EmailAddress,
		TicketTeam:          c.TicketTeam,
		CallDelay:           c.CallDelay,
		MaxCallsPerDispatch: c.MaxCalls,
	}
}

func envInt(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return n
}

func envSeconds(key string) time.Duration {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
