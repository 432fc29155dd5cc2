package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Config holds settings for the run command.
type Config struct {
	RPCURL         string
	FromBlock      uint64
	ToBlock        uint64
	Addresses      []string
	Topic0         []string
	BatchSize      uint64
	Out            string
	StateFile      string
	MaxRetries     int
	RetryBackoff   time.Duration
	TimestampCache int
	Log            LogConfig
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"address":         []string{StakingContract},
		"batch-size":      uint64(2000),
		"out":             "./data/logs.jsonl",
		"state-file":      "./data/checkpoint.json",
		"max-retries":     5,
		"retry-backoff":   500 * time.Millisecond,
		"timestamp-cache": 8192,
	})
	if err != nil {
		return Config{}, err
	}

	return Config{
		RPCURL:         v.GetString("rpc"),
		FromBlock:      v.GetUint64("from"),
		ToBlock:        v.GetUint64("to"),
		Addresses:      getStringSlice(v, "address"),
		Topic0:         getStringSlice(v, "topic0"),
		BatchSize:      v.GetUint64("batch-size"),
		Out:            v.GetString("out"),
		StateFile:      v.GetString("state-file"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		TimestampCache: v.GetInt("timestamp-cache"),
		Log:            loadLogConfig(v),
	}, nil
}
