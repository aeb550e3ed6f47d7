package config

import (
	"time"

	"github.com/tickr-network/tickr/internal/postgres"
)

type Config struct {
	Database        string          `mapstructure:"database"` // Database to store marketplace state. e.g. `postgres` | `memory`
	Postgres        postgres.Config `mapstructure:"postgres"`
	APIHandlers     []string        `mapstructure:"api_handlers"`      // e.g. `http`
	EntryPassSecret string          `mapstructure:"entry_pass_secret"` // HMAC secret for signed entry passes
	MetadataSync    MetadataSync    `mapstructure:"metadata_sync"`
}

// MetadataSync configures the background worker that mirrors event metadata
// documents into the local cache.
type MetadataSync struct {
	Disabled    bool          `mapstructure:"disabled"`
	Interval    time.Duration `mapstructure:"interval"`     // how often to look for stale entries
	StaleAfter  time.Duration `mapstructure:"stale_after"`  // cache entries older than this are refreshed
	BatchSize   int32         `mapstructure:"batch_size"`   // events per sync round
	Concurrency int           `mapstructure:"concurrency"`  // parallel fetches per round
	Debug       bool          `mapstructure:"debug"`
}
