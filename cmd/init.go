/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the task file",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := store.GetConfigPath()
		if err != nil {
			log.Fatalf("❌ Failed to get config path: %v", err)
		}

		if _, err := os.Stat(configFile); err == nil && !initForce {
			log.Printf("⚠️ Config already exists at %s (use --force to overwrite)", configFile)
		} else {
			if err := store.SaveConfigTo(configFile, model.DefaultConfig()); err != nil {
				log.Fatalf("❌ Failed to create config file: %v", err)
			}
			fmt.Println("📄 Config file created at:", configFile)
		}

		taskStore, config := openStore(false)
		defer taskStore.Close()

		fmt.Println("✅ task-tracker initialized successfully!")
		fmt.Println("🗂  Task file:", config.DataFile)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
