/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/mapstructure"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/spf13/cobra"
)

const saveAndExit = "Save & Exit"

// configField points at one yaml key inside a section of the config.
type configField struct {
	Label   string
	Key     string
	section func(c *model.Config) any
}

func rootSection(c *model.Config) any   { return c }
func backupSection(c *model.Config) any { return &c.Backup }
func logSection(c *model.Config) any    { return &c.Log }

var configFields = []configField{
	{"DataFile", "data_file", rootSection},
	{"Editor", "editor", rootSection},
	{"AtomicWrite", "atomic_write", rootSection},
	{"RefreshInterval", "refresh_interval", rootSection},
	{"Backup.Enable", "enable", backupSection},
	{"Backup.Retention", "retention", backupSection},
	{"Backup.BackupDir", "backup_dir", backupSection},
	{"Log.Level", "level", logSection},
	{"Log.Format", "format", logSection},
}

func getConfigValue(c *model.Config, field configField) string {
	values := map[string]interface{}{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "yaml",
		Result:  &values,
	})
	if err != nil {
		return "UNKNOWN"
	}
	if err := decoder.Decode(field.section(c)); err != nil {
		return "UNKNOWN"
	}
	v, ok := values[field.Key]
	if !ok {
		return "UNKNOWN"
	}
	return fmt.Sprint(v)
}

// setConfigValue parses raw into the field's type ("true", "30", "2s", ...).
func setConfigValue(c *model.Config, field configField, raw string) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           field.section(c),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]interface{}{field.Key: raw}); err != nil {
		return fmt.Errorf("invalid value for %s: %w", field.Label, err)
	}
	return nil
}

type Model struct {
	cursor     int
	config     model.Config
	configPath string
	textInput  textinput.Model
	editMode   bool
	message    string
}

func newModel(config model.Config, configPath string) tea.Model {
	return &Model{
		cursor:     0,
		config:     config,
		configPath: configPath,
		textInput:  textinput.New(),
		editMode:   false,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editMode {
			switch msg.String() {
			case "enter":
				m.updateConfig()
				m.editMode = false
				m.textInput.Blur()
				return m, tea.ClearScreen
			case "esc":
				m.editMode = false
				m.textInput.Blur()
			default:
				m.textInput, _ = m.textInput.Update(msg)
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(configFields) {
				m.cursor++
			}
		case "enter":
			if m.cursor == len(configFields) {
				if err := store.SaveConfigTo(m.configPath, m.config); err != nil {
					log.Printf("⚠️ Failed to save config file: %v", err)
				}
				return m, tea.Quit
			}
			m.editMode = true
			m.message = ""
			m.textInput.SetValue(getConfigValue(&m.config, configFields[m.cursor]))
			m.textInput.Focus()
		}
	}

	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString("📄 Configure task-tracker\n\n")

	for i, field := range configFields {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}
		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field.Label, getConfigValue(&m.config, field)))
	}
	cursor := "  "
	if m.cursor == len(configFields) {
		cursor = "👉"
	}
	s.WriteString(fmt.Sprintf("%s %s\n", cursor, saveAndExit))

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + configFields[m.cursor].Label + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to save, ESC to cancel)\n")
	} else {
		s.WriteString("\n↑/↓ to move, Enter to edit, q to quit without saving\n")
	}

	return s.String()
}

func (m *Model) updateConfig() {
	if err := setConfigValue(&m.config, configFields[m.cursor], m.textInput.Value()); err != nil {
		m.message = "⚠️ " + err.Error()
		return
	}
	m.message = "✅ " + configFields[m.cursor].Label + " updated"
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure config.yaml interactively",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := store.GetConfigPath()
		if err != nil {
			log.Fatalf("❌ Failed to get config path: %v", err)
		}

		config, err := store.LoadConfigFrom(configPath)
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		fmt.Println(configPath)
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Printf("⚠️ No config at %s yet, showing defaults (Save & Exit creates it)", configPath)
		}

		if _, err := tea.NewProgram(newModel(*config, configPath)).Run(); err != nil {
			log.Fatalf("❌ Error running TUI: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
