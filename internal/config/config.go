package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets yaml carry values like "500ms" or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Run      RunConfig      `yaml:"run"`
	Logging  LoggingConfig  `yaml:"logging"`
	Schedule string         `yaml:"schedule"` // cron spec; empty = one-shot
}

type PathsConfig struct {
	ZFS   string `yaml:"zfs"`
	ZPool string `yaml:"zpool"`
}

type ThrottleConfig struct {
	// MaxDestroys caps concurrently in-flight destroy operations
	// across the whole process.
	MaxDestroys int64 `yaml:"maxDestroys"`
}

type RunConfig struct {
	// SettleDelay is how long to wait after joining a batch of
	// destroys before trusting a fresh free-space reading; the
	// engine reclaims space asynchronously.
	SettleDelay Duration `yaml:"settleDelay"`
}

type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"` // "info", "debug", etc.
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			ZFS:   "/sbin/zfs",
			ZPool: "/sbin/zpool",
		},
		Throttle: ThrottleConfig{MaxDestroys: 10},
		Run:      RunConfig{SettleDelay: Duration(2 * time.Second)},
		Logging:  LoggingConfig{File: "/var/log/zfs-autosnap.log", Level: "info"},
	}
}
