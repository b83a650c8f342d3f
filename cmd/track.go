/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/nakachan-ing/task-tracker/internal/tracker"
	"github.com/nakachan-ing/task-tracker/internal/util"
	"github.com/spf13/cobra"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

const (
	inputTitle = iota
	inputDescription
	inputGoal
)

type trackModel struct {
	store    *store.TaskStore
	session  *tracker.Session
	interval time.Duration

	tasks    []model.Task
	cursor   int
	displays map[int]string
	bar      progress.Model

	adding bool
	inputs []textinput.Model
	focus  int

	status string
	err    error
}

func newTrackModel(taskStore *store.TaskStore, session *tracker.Session, interval time.Duration) *trackModel {
	inputs := make([]textinput.Model, 3)
	for i, placeholder := range []string{"Title", "Description", "Goal (minutes)"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 200
		inputs[i] = in
	}
	inputs[inputGoal].CharLimit = 10

	m := &trackModel{
		store:    taskStore,
		session:  session,
		interval: interval,
		displays: map[int]string{},
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		inputs:   inputs,
	}
	m.reload()
	return m
}

func (m *trackModel) reload() {
	tasks, err := m.store.Tasks()
	if err != nil {
		m.err = err
		return
	}
	m.tasks = util.Visible(tasks)
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}
}

func (m *trackModel) selected() (model.Task, bool) {
	if len(m.tasks) == 0 {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *trackModel) Init() tea.Cmd {
	return tick(m.interval)
}

func (m *trackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.displays = m.session.Tick()
		return m, tick(m.interval)
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *trackModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "enter", " ", "s":
		task, ok := m.selected()
		if !ok {
			break
		}
		state, err := m.session.Toggle(task.TaskID)
		if err != nil {
			m.err = err
			break
		}
		m.status = fmt.Sprintf("Timer %s for %q", state, task.Title)
		m.displays = m.session.Tick()
		m.reload()
	case "c":
		task, ok := m.selected()
		if !ok {
			break
		}
		if _, err := m.store.ToggleCompleted(task.TaskID); err != nil {
			m.err = err
			break
		}
		m.reload()
	case "d", "x":
		task, ok := m.selected()
		if !ok {
			break
		}
		if err := m.session.Stop(task.TaskID); err != nil {
			m.err = err
			break
		}
		if err := m.store.Remove(task.TaskID); err != nil {
			m.err = err
			break
		}
		m.status = fmt.Sprintf("Removed %q", task.Title)
		m.reload()
	case "a":
		m.adding = true
		m.focus = inputTitle
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		return m, m.inputs[m.focus].Focus()
	}
	return m, nil
}

// quit stops running timers so their time is saved before the program exits.
func (m *trackModel) quit() (tea.Model, tea.Cmd) {
	if err := m.session.Flush(); err != nil {
		m.err = err
	}
	return m, tea.Quit
}

func (m *trackModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.adding = false
		return m, nil
	case "tab", "down":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "shift+tab", "up":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		title := strings.TrimSpace(m.inputs[inputTitle].Value())
		task, err := m.store.Add(title, m.inputs[inputDescription].Value(), m.inputs[inputGoal].Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.adding = false
		m.status = fmt.Sprintf("Added task %d", task.TaskID)
		m.reload()
		m.cursor = len(m.tasks) - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *trackModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("⏱  Task Tracker") + "\n\n")

	if len(m.tasks) == 0 {
		s.WriteString(helpStyle.Render("No tasks yet. Press a to add one.") + "\n")
	}

	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = "👉"
		}
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}

		timer := task.Timer
		percent := util.TaskProgress(task)
		if display, ok := m.displays[task.TaskID]; ok {
			timer = runningStyle.Render(display)
		}
		if elapsed, ok := m.session.Elapsed(task.TaskID); ok {
			goal, _ := util.ParseDuration(task.TimeGoal)
			percent = util.Progress(goal, elapsed)
		}

		title := task.Title
		switch {
		case task.Completed:
			title = doneStyle.Render(title)
		case i == m.cursor:
			title = selectedStyle.Render(title)
		}

		s.WriteString(fmt.Sprintf("%s %s %-30s %s / %s %s %3.0f%%\n",
			cursor, check, title, timer, task.TimeGoal, m.bar.ViewAs(percent/100), percent))
		if i == m.cursor && task.Description != "" {
			s.WriteString(helpStyle.Render("      "+task.Description) + "\n")
		}
	}

	if m.adding {
		s.WriteString("\n" + headerStyle.Render("New task") + "\n")
		for _, in := range m.inputs {
			s.WriteString(in.View() + "\n")
		}
		s.WriteString(helpStyle.Render("tab to switch fields, enter to save, esc to cancel") + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(describeError(m.selectedID(), m.err)) + "\n")
	} else if m.status != "" {
		s.WriteString("\n" + m.status + "\n")
	}

	if !m.adding {
		s.WriteString("\n" + helpStyle.Render("↑/↓ move • enter start/stop timer • c complete • d remove • a add • q quit") + "\n")
	}
	return s.String()
}

func (m *trackModel) selectedID() int {
	if task, ok := m.selected(); ok {
		return task.TaskID
	}
	return 0
}

var trackCmd = &cobra.Command{
	Use:     "track",
	Short:   "Interactive tracker with live timers",
	Args:    cobra.NoArgs,
	Aliases: []string{"ui"},
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, config := openStore(true)
		defer taskStore.Close()

		lockFile := config.DataFile + ".lock"
		existing, err := util.CreateLockFile(lockFile, config.DataFile)
		if err != nil {
			log.Printf("⚠️ Failed to create lock file: %v", err)
		} else if existing != nil {
			log.Printf("⚠️ Another tracker is running (pid %d, user %s, since %s); the last one to save wins",
				existing.Pid, existing.User, existing.TimeStamp)
			log.Printf("⚠️ If that is not the case, delete %s", lockFile)
		} else {
			defer func() {
				if err := util.RemoveLockFile(lockFile); err != nil {
					log.Printf("⚠️ %v", err)
				}
			}()
		}

		logger := newLogger(config.Log)
		session := tracker.NewSession(taskStore, tracker.WithLogger(logger))

		_, runErr := tea.NewProgram(newTrackModel(taskStore, session, config.RefreshInterval)).Run()

		// timers still running when the program ended abnormally
		if err := session.Flush(); err != nil {
			log.Printf("❌ Failed to save running timers: %v", err)
		} else {
			logger.Debug("timers saved")
		}

		if runErr != nil {
			log.Printf("❌ Error running TUI: %v", runErr)
		}
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}
