package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	RoundSeconds         int
	MaxRounds            int
	WordChoices          int
	MinPlayers           int
	BotDrawDelaySeconds  int
	BotGuessMinSeconds   int
	BotGuessMaxSeconds   int
	BotGuessChance       float64
	RosterPollSeconds    int
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeSec int
	DBConnMaxIdleTimeSec int
}

func Default() Config {
	return Config{
		RoundSeconds:         60,
		MaxRounds:            10,
		WordChoices:          3,
		MinPlayers:           2,
		BotDrawDelaySeconds:  5,
		BotGuessMinSeconds:   5,
		BotGuessMaxSeconds:   15,
		BotGuessChance:       0.5,
		RosterPollSeconds:    2,
		DBMaxOpenConns:       10,
		DBMaxIdleConns:       10,
		DBConnMaxLifetimeSec: 300,
		DBConnMaxIdleTimeSec: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("ROUND_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RoundSeconds = value
		}
	}
	if raw := os.Getenv("MAX_ROUNDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxRounds = value
		}
	}
	if raw := os.Getenv("WORD_CHOICES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WordChoices = value
		}
	}
	if raw := os.Getenv("MIN_PLAYERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 1 {
			cfg.MinPlayers = value
		}
	}
	if raw := os.Getenv("BOT_DRAW_DELAY_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.BotDrawDelaySeconds = value
		}
	}
	if raw := os.Getenv("BOT_GUESS_MIN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.BotGuessMinSeconds = value
		}
	}
	if raw := os.Getenv("BOT_GUESS_MAX_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.BotGuessMaxSeconds = value
		}
	}
	if raw := os.Getenv("BOT_GUESS_CHANCE"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 && value <= 1 {
			cfg.BotGuessChance = value
		}
	}
	if raw := os.Getenv("ROSTER_POLL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RosterPollSeconds = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSec = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_TIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSec = value
		}
	}
	return cfg
}
