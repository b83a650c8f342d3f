package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nakachan-ing/task-tracker/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	ConfigEnv   = "TASKTRACKER_CONFIG"
	DataFileEnv = "TASKTRACKER_FILE"
)

func GetConfigPath() (string, error) {
	if customConfig := os.Getenv(ConfigEnv); customConfig != "" {
		return customConfig, nil
	}

	var configPath string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			configPath = filepath.Join(appData, "task-tracker", "config.yaml")
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", err)
			}
			configPath = filepath.Join(homeDir, "AppData", "Roaming", "task-tracker", "config.yaml")
		}

	default: // macOS / Linux
		configDir, err := os.UserConfigDir()
		if err != nil {
			homeDir, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
			}
			configPath = filepath.Join(homeDir, ".task-tracker", "config.yaml")
			log.Printf("⚠️ Failed to get user config directory, using fallback: %s", configPath)
		} else {
			configPath = filepath.Join(configDir, "task-tracker", "config.yaml")
		}
	}

	return configPath, nil
}

// Expand `~` to the home directory (Windows included)
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("⚠️ Failed to get home directory: %v", err)
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadConfig reads the config file. A missing file silently yields the defaults.
func LoadConfig() (*model.Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (*model.Config, error) {
	config := model.DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults; `init` writes the file
	case err != nil:
		return nil, fmt.Errorf("failed to read config file (%s): %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if dataFile := os.Getenv(DataFileEnv); dataFile != "" {
		config.DataFile = dataFile
	}

	config.DataFile = expandHomeDir(config.DataFile)
	config.Backup.BackupDir = expandHomeDir(config.Backup.BackupDir)
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = model.DefaultConfig().RefreshInterval
	}

	return &config, nil
}

func SaveConfig(config model.Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveConfigTo(configPath, config)
}

func SaveConfigTo(configPath string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to convert config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file (%s): %w", configPath, err)
	}
	return nil
}
