package universe

import "github.com/joefazee/omen/models"

// Config represents the configuration for the universe module
type Config struct {
	// DefaultNumTicks is the tick count assigned to yes/no and categorical
	// markets. Scalar markets carry their own.
	DefaultNumTicks int64 `env:"DEFAULT_NUM_TICKS"`

	MaxMarketsPageSize int `env:"MAX_MARKETS_PAGE_SIZE"`
}

func (c *Config) Validate() error {
	if c.DefaultNumTicks <= 0 {
		return models.ErrInvalidNumTicks
	}
	if c.MaxMarketsPageSize <= 0 {
		return models.ErrInvalidAmount
	}
	return nil
}

// GetDefaultConfig returns the default universe configuration
func GetDefaultConfig() *Config {
	return &Config{
		DefaultNumTicks:    10000,
		MaxMarketsPageSize: 100,
	}
}
