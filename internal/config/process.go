package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreLevelDB  = "leveldb"
	StorePostgres = "postgres"
)

// StoreConfig selects and locates the entity store.
type StoreConfig struct {
	Backend     string
	LevelDBPath string
	PGDSN       string
}

// ProtocolConfig overrides protocol constants. Zero values keep the defaults.
type ProtocolConfig struct {
	Genesis         uint64
	DelegationRatio int64
}

// ProcessConfig holds configuration for the process command.
type ProcessConfig struct {
	In              string
	Store           StoreConfig
	Protocol        ProtocolConfig
	StateFile       string
	StateName       string
	CheckpointEvery int
	MetricsAddr     string
	Log             LogConfig
}

// ShowConfig holds configuration for the show command.
type ShowConfig struct {
	Indexer  string
	From     uint64
	To       uint64
	Store    StoreConfig
	Protocol ProtocolConfig
	Log      LogConfig
}

var storeDefaults = map[string]interface{}{
	"store":        StoreLevelDB,
	"leveldb-path": "./data/ledger",
}

// LoadProcess merges config file, environment variables, and flags into ProcessConfig.
func LoadProcess(cfgFile string, flags *pflag.FlagSet) (ProcessConfig, error) {
	defaults := map[string]interface{}{
		"in":               "./data/typed_events.jsonl",
		"state-name":       "process",
		"checkpoint-every": 100,
	}
	for key, value := range storeDefaults {
		defaults[key] = value
	}
	v, err := newViper(cfgFile, flags, defaults)
	if err != nil {
		return ProcessConfig{}, err
	}

	store, err := loadStoreConfig(v.GetString("store"), v.GetString("leveldb-path"), v.GetString("pg-dsn"))
	if err != nil {
		return ProcessConfig{}, err
	}
	protocol, err := loadProtocolConfig(v.GetString("genesis"), v.GetInt64("delegation-ratio"))
	if err != nil {
		return ProcessConfig{}, err
	}

	return ProcessConfig{
		In:              v.GetString("in"),
		Store:           store,
		Protocol:        protocol,
		StateFile:       v.GetString("state-file"),
		StateName:       v.GetString("state-name"),
		CheckpointEvery: v.GetInt("checkpoint-every"),
		MetricsAddr:     v.GetString("metrics-addr"),
		Log:             loadLogConfig(v),
	}, nil
}

// LoadShow merges config file, environment variables, and flags into ShowConfig.
func LoadShow(cfgFile string, flags *pflag.FlagSet) (ShowConfig, error) {
	v, err := newViper(cfgFile, flags, storeDefaults)
	if err != nil {
		return ShowConfig{}, err
	}

	store, err := loadStoreConfig(v.GetString("store"), v.GetString("leveldb-path"), v.GetString("pg-dsn"))
	if err != nil {
		return ShowConfig{}, err
	}
	if store.Backend == StoreMemory {
		return ShowConfig{}, fmt.Errorf("show needs a persistent store")
	}
	protocol, err := loadProtocolConfig(v.GetString("genesis"), v.GetInt64("delegation-ratio"))
	if err != nil {
		return ShowConfig{}, err
	}
	from, err := ParseTimestamp(v.GetString("from"))
	if err != nil {
		return ShowConfig{}, fmt.Errorf("parse from: %w", err)
	}
	to, err := ParseTimestamp(v.GetString("to"))
	if err != nil {
		return ShowConfig{}, fmt.Errorf("parse to: %w", err)
	}

	return ShowConfig{
		Indexer:  strings.ToLower(strings.TrimSpace(v.GetString("indexer"))),
		From:     from,
		To:       to,
		Store:    store,
		Protocol: protocol,
		Log:      loadLogConfig(v),
	}, nil
}

func loadStoreConfig(backend, levelDBPath, dsn string) (StoreConfig, error) {
	cfg := StoreConfig{
		Backend:     strings.ToLower(strings.TrimSpace(backend)),
		LevelDBPath: levelDBPath,
		PGDSN:       dsn,
	}
	switch cfg.Backend {
	case StoreMemory:
	case StoreLevelDB:
		if cfg.LevelDBPath == "" {
			return StoreConfig{}, fmt.Errorf("leveldb-path is required for the leveldb store")
		}
	case StorePostgres:
		if cfg.PGDSN == "" {
			return StoreConfig{}, fmt.Errorf("pg-dsn is required for the postgres store")
		}
	default:
		return StoreConfig{}, fmt.Errorf("unknown store %q", backend)
	}
	return cfg, nil
}

func loadProtocolConfig(genesis string, delegationRatio int64) (ProtocolConfig, error) {
	ts, err := ParseTimestamp(genesis)
	if err != nil {
		return ProtocolConfig{}, fmt.Errorf("parse genesis: %w", err)
	}
	if delegationRatio < 0 {
		return ProtocolConfig{}, fmt.Errorf("delegation-ratio must not be negative")
	}
	return ProtocolConfig{Genesis: ts, DelegationRatio: delegationRatio}, nil
}
