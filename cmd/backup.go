/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the task file into the backup directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()

		now := time.Now()
		backupPath, err := store.BackupTaskFile(config.DataFile, config.Backup.BackupDir, now)
		if err != nil {
			log.Printf("❌ Backup failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Backup written to %s\n", backupPath)

		retention := time.Duration(config.Backup.Retention) * 24 * time.Hour
		if retention <= 0 {
			return
		}
		removed, err := store.CleanupBackups(config.Backup.BackupDir, retention, now)
		if err != nil {
			log.Printf("⚠️ Backup cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			fmt.Printf("🧹 Removed %d backups older than %d days\n", removed, config.Backup.Retention)
		}
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
