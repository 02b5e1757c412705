package recommender

import (
	"bytes"
	"fmt"
)

const (
	DEFAULT_MAX_POOL_SIZE = 50
	DEFAULT_LOG_TEAMS     = false

	// number of members in a recommended team.
	TEAM_SIZE = 3

	// average move power used when no move has power metadata.
	DEFAULT_BASELINE_POWER = float64(8)
	// per distinct type of the creature.
	TYPE_COUNT_WEIGHT = float64(1.5)
	// per creature type that the opponents don't have.
	NAIVE_DIVERSITY_WEIGHT = float64(2)
	// per opponent type, times (best multiplier - 1).
	EFFECTIVENESS_WEIGHT = float64(25)
	// per distinct type across a whole team.
	TEAM_DIVERSITY_WEIGHT = float64(4)
	// times (team vulnerability - 1).
	VULNERABILITY_WEIGHT = float64(20)
)

type Config struct {
	// Only this many of the best scoring candidates are considered when
	// searching for a team. The search is cubic in this number.
	MaxPoolSize int `koanf:"max_pool_size" json:"max_pool_size"`
	// Whether to log each recommended team and its breakdown.
	LogTeams bool `koanf:"log_teams" json:"log_teams"`
}

func (cfg *Config) writeConfiguration(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("max_pool_size: %d, ", cfg.MaxPoolSize))
	buf.WriteString(fmt.Sprintf("log_teams: %t", cfg.LogTeams))
}

func (cfg *Config) Validate() error {
	if val := cfg.MaxPoolSize; val < TEAM_SIZE || val > 500 {
		return fmt.Errorf("invalid max_pool_size '%d': must be >= %d and <= %d", val, TEAM_SIZE, 500)
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		MaxPoolSize: DEFAULT_MAX_POOL_SIZE,
		LogTeams:    DEFAULT_LOG_TEAMS,
	}
}
