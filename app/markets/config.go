package markets

import (
	"time"

	"github.com/joefazee/omen/models"
)

// Config represents the configuration for the markets module
type Config struct {
	// ReportingGracePeriod is how long after a market's end time the
	// oracle's report is considered due. Informational only; reports are
	// accepted any time after end time.
	ReportingGracePeriod time.Duration `env:"REPORTING_GRACE_PERIOD"`
}

func (c *Config) Validate() error {
	if c.ReportingGracePeriod < 0 {
		return models.ErrInvalidGracePeriod
	}
	return nil
}

// GetDefaultConfig returns the default markets configuration
func GetDefaultConfig() *Config {
	return &Config{
		ReportingGracePeriod: 72 * time.Hour,
	}
}
