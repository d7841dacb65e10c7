package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr             string        `envconfig:"NIX_ADDR" default:":8080"`
	JournalDir       string        `envconfig:"NIX_JOURNAL_DIR" default:"./data/journal"`
	OutboxDir        string        `envconfig:"NIX_OUTBOX_DIR" default:"./data/outbox"`
	SnapshotDir      string        `envconfig:"NIX_SNAPSHOT_DIR" default:"./data/snapshot"`
	SnapshotInterval time.Duration `envconfig:"NIX_SNAPSHOT_INTERVAL" default:"1m"`
	KafkaBrokers     []string      `envconfig:"NIX_KAFKA_BROKERS" default:"localhost:9092"`
	EventsTopic      string        `envconfig:"NIX_EVENTS_TOPIC" default:"nix.events"`
	FillsTopic       string        `envconfig:"NIX_FILLS_TOPIC" default:"nix.fills"`
	FillFeed         bool          `envconfig:"NIX_FILL_FEED" default:"false"`
	Broadcast        bool          `envconfig:"NIX_BROADCAST" default:"false"`
	Operator         string        `envconfig:"NIX_OPERATOR" default:"0x00000000000000000000000000000000004e4958"`
	Collections      []string      `envconfig:"NIX_COLLECTIONS"`
	Environment      string        `envconfig:"NIX_ENV" default:"development"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
