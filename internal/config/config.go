// Package config resolves settings from flags and ANCHORBAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"anchorbar/internal/domain"
	"anchorbar/internal/logger"
)

const EnvPrefix = "ANCHORBAR"

// Setting keys
const (
	KeyDB          = "db"
	KeyLogMode     = "log_mode"
	KeyVertexCount = "vertex_count"
	KeyOutputDir   = "out_dir"
)

var ErrNoDatabase = errors.New("database file not provided (use --db or ANCHORBAR_DB)")

// Settings are the resolved runtime settings
type Settings struct {
	DBPath      string
	LogMode     string
	VertexCount int
	OutputDir   string
}

// New returns a viper instance with defaults and environment lookup configured
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogMode, logger.ModeDev)
	v.SetDefault(KeyVertexCount, domain.DefaultVertexCount)
	v.SetDefault(KeyOutputDir, ".")
	return v
}

// BindFlags binds command-line flags to their setting keys. Flags are looked
// up by the key with underscores replaced by dashes.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyDB, KeyLogMode, KeyVertexCount, KeyOutputDir} {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("error binding flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Load reads the settings out of v
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DBPath:      strings.TrimSpace(v.GetString(KeyDB)),
		LogMode:     v.GetString(KeyLogMode),
		VertexCount: v.GetInt(KeyVertexCount),
		OutputDir:   v.GetString(KeyOutputDir),
	}
	if s.VertexCount <= 0 {
		return nil, fmt.Errorf("vertex count must be positive, got %d", s.VertexCount)
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	return s, nil
}

// RequireDB fails when no database path was configured
func (s *Settings) RequireDB() error {
	if s.DBPath == "" {
		return ErrNoDatabase
	}
	return nil
}
