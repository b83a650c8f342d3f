package model

import "time"

type Config struct {
	DataFile        string        `yaml:"data_file"`
	Editor          string        `yaml:"editor"`
	AtomicWrite     bool          `yaml:"atomic_write"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Backup          BackupConfig  `yaml:"backup"`
	Log             LogConfig     `yaml:"log"`
}

type BackupConfig struct {
	Enable    bool   `yaml:"enable"`
	Retention int    `yaml:"retention"` // days
	BackupDir string `yaml:"backup_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

func DefaultConfig() Config {
	return Config{
		DataFile:        "~/.config/task-tracker/task.json",
		Editor:          "vim",
		AtomicWrite:     true,
		RefreshInterval: time.Second,
		Backup: BackupConfig{
			Enable:    false,
			Retention: 14,
			BackupDir: "~/.config/task-tracker/backup",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
