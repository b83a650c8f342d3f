/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/spf13/cobra"
)

var dataFileFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "task-tracker",
	Short: "Track tasks, time goals and elapsed time in a local JSON file",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("⚠️ Failed to load .env: %v", err)
		}
	},
}

func Execute() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFileFlag, "file", "f", "", "Path to the task JSON file (overrides config)")
}

func loadConfig() *model.Config {
	config, err := store.LoadConfig()
	if err != nil {
		log.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}
	if dataFileFlag != "" {
		config.DataFile = dataFileFlag
	}
	return config
}

func newLogger(config model.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(config.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(config.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore loads the config and opens the task file. Mutating commands
// take a backup first when backups are enabled.
func openStore(mutating bool) (*store.TaskStore, *model.Config) {
	config := loadConfig()
	logger := newLogger(config.Log)

	if mutating && config.Backup.Enable {
		if err := runBackup(*config, logger); err != nil {
			log.Printf("⚠️ Backup failed: %v", err)
		}
	}

	taskStore, err := store.Open(config.DataFile, config.AtomicWrite, store.WithLogger(logger))
	if err != nil {
		log.Printf("❌ Failed to open task file: %v", err)
		os.Exit(1)
	}
	return taskStore, config
}

func runBackup(config model.Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DataFile); os.IsNotExist(err) {
		return nil
	}

	now := time.Now()
	backupPath, err := store.BackupTaskFile(config.DataFile, config.Backup.BackupDir, now)
	if err != nil {
		return err
	}
	logger.Debug("backup written", "path", backupPath)

	retention := time.Duration(config.Backup.Retention) * 24 * time.Hour
	if retention > 0 {
		if _, err := store.CleanupBackups(config.Backup.BackupDir, retention, now); err != nil {
			log.Printf("⚠️ Backup cleanup failed: %v", err)
		}
	}
	return nil
}

func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}

// describeError turns store errors into the message shown to the user.
func describeError(taskID int, err error) string {
	var storageErr *store.StorageError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("❌ Task with ID %d not found", taskID)
	case store.IsValidation(err):
		return fmt.Sprintf("❌ Invalid input: %v", err)
	case errors.As(err, &storageErr):
		return fmt.Sprintf("❌ Could not access the task file: %v", err)
	default:
		return fmt.Sprintf("❌ %v", err)
	}
}

func exitOnError(taskID int, err error) {
	if err != nil {
		log.Println(describeError(taskID, err))
		os.Exit(1)
	}
}
