/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/nakachan-ing/task-tracker/internal/util"
	"github.com/spf13/cobra"
)

var taskDescription string
var taskGoal string
var taskEdit bool
var taskAll bool
var taskDone bool
var taskOpen bool
var taskSearchQuery string
var taskPageSize int
var taskMeta bool
var timerCopy bool

var addTaskCmd = &cobra.Command{
	Use:     "add [title]",
	Short:   "Add a new task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"a", "new"},
	Run: func(cmd *cobra.Command, args []string) {
		taskTitle := args[0]

		_, err := store.ValidateNewTask(taskTitle, taskGoal)
		exitOnError(0, err)

		description := taskDescription
		if taskEdit {
			edited, err := util.EditText(description, *loadConfig())
			if err != nil {
				log.Printf("❌ Failed to open editor: %v\n", err)
				os.Exit(1)
			}
			description = edited
		}

		task, err := addTask(taskTitle, description, taskGoal)
		exitOnError(0, err)

		fmt.Printf("✅ Task %d has been created successfully. (goal %s)\n", task.TaskID, task.TimeGoal)
	},
}

// addTask rejects bad input before the store is opened, so no backup is
// taken for an add that would fail.
func addTask(title, description, goalText string) (model.Task, error) {
	if _, err := store.ValidateNewTask(title, goalText); err != nil {
		return model.Task{}, err
	}

	taskStore, _ := openStore(true)
	defer taskStore.Close()

	return taskStore.Add(title, description, goalText)
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, _ := openStore(false)
		defer taskStore.Close()

		tasks, err := taskStore.Tasks()
		exitOnError(0, err)

		filter := util.TaskFilter{All: taskAll, Query: taskSearchQuery}
		if taskDone && !taskOpen {
			completed := true
			filter.Completed = &completed
		} else if taskOpen && !taskDone {
			completed := false
			filter.Completed = &completed
		}
		filteredTasks := util.FilterTasks(tasks, filter)

		reader := bufio.NewReader(os.Stdin)
		page := 0

		fmt.Println(strings.Repeat("=", 30))
		fmt.Printf("Tasks: %v tasks shown\n", len(filteredTasks))
		fmt.Println(strings.Repeat("=", 30))

		if taskPageSize <= 0 {
			taskPageSize = len(filteredTasks)
		}

		for {
			start := page * taskPageSize
			end := start + taskPageSize

			if start >= len(filteredTasks) {
				fmt.Println("No more tasks to display.")
				break
			}
			if end > len(filteredTasks) {
				end = len(filteredTasks)
			}

			renderTaskTable(filteredTasks[start:end])

			if end >= len(filteredTasks) {
				break
			}

			fmt.Print("\nPress Enter for the next page (q to quit): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			if input == "q" {
				break
			}

			page++
		}
	},
}

func renderTaskTable(tasks []model.Task) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("Task ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Timer"),
		text.FgGreen.Sprintf("Goal"),
		text.FgGreen.Sprintf("Progress"),
		text.FgGreen.Sprintf("Status"),
	})

	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.TaskID,
			task.Title,
			task.Timer,
			task.TimeGoal,
			fmt.Sprintf("%3.0f%%", util.TaskProgress(task)),
			taskStatus(task),
		})
	}

	t.Render()
}

func taskStatus(task model.Task) string {
	switch {
	case !task.Show:
		return text.FgHiBlack.Sprintf("Removed")
	case task.Completed:
		return text.FgHiGreen.Sprintf("Done")
	default:
		return text.FgHiYellow.Sprintf("Open")
	}
}

var showTaskCmd = &cobra.Command{
	Use:     "show [Task ID]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(false)
		defer taskStore.Close()

		task, err := taskStore.Get(taskID)
		exitOnError(taskID, err)

		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		fieldStyle := color.New(color.FgHiGreen).SprintFunc()

		bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
		percent := util.TaskProgress(task)

		fmt.Printf("[%v] %v\n", titleStyle(task.TaskID), titleStyle(task.Title))
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Timer: %v\n", fieldStyle(task.Timer))
		fmt.Printf("Goal: %v\n", fieldStyle(task.TimeGoal))
		fmt.Printf("Progress: %s\n", bar.ViewAs(percent/100))
		fmt.Printf("Completed: %v\n", fieldStyle(task.Completed))
		fmt.Printf("Visible: %v\n", fieldStyle(task.Show))

		if !taskMeta && task.Description != "" {
			renderedContent, err := glamour.Render(task.Description, "dark")
			if err != nil {
				log.Printf("⚠️ Failed to render description: %v", err)
				fmt.Println(task.Description)
			} else {
				fmt.Println(renderedContent)
			}
		}
	},
}

var doneTaskCmd = &cobra.Command{
	Use:     "done [Task ID]",
	Short:   "Toggle the completed flag of a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"d"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(true)
		defer taskStore.Close()

		completed, err := taskStore.ToggleCompleted(taskID)
		exitOnError(taskID, err)

		if completed {
			fmt.Printf("✅ Task %d marked as completed\n", taskID)
		} else {
			fmt.Printf("✅ Task %d marked as not completed\n", taskID)
		}
	},
}

var removeTaskCmd = &cobra.Command{
	Use:     "remove [Task ID]",
	Short:   "Hide a task (it stays in the task file)",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(true)
		defer taskStore.Close()

		exitOnError(taskID, taskStore.Remove(taskID))
		fmt.Printf("✅ Task %d removed\n", taskID)
	},
}

var restoreTaskCmd = &cobra.Command{
	Use:   "restore [Task ID]",
	Short: "Show a removed task again",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(true)
		defer taskStore.Close()

		exitOnError(taskID, taskStore.Restore(taskID))
		fmt.Printf("✅ Task %d restored\n", taskID)
	},
}

var countTaskCmd = &cobra.Command{
	Use:   "count",
	Short: "Count all tasks, removed ones included",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, _ := openStore(false)
		defer taskStore.Close()

		count, err := taskStore.Count()
		exitOnError(0, err)
		fmt.Println(count)
	},
}

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Read or overwrite the elapsed time of a task",
}

var timerGetCmd = &cobra.Command{
	Use:   "get [Task ID]",
	Short: "Print the elapsed time of a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(false)
		defer taskStore.Close()

		elapsed, err := taskStore.GetTimer(taskID)
		exitOnError(taskID, err)

		formatted := util.FormatDuration(elapsed)
		fmt.Println(formatted)

		if timerCopy {
			if err := clipboard.WriteAll(formatted); err != nil {
				log.Printf("⚠️ Failed to copy to clipboard: %v", err)
			}
		}
	},
}

var timerSetCmd = &cobra.Command{
	Use:   "set [Task ID] [HH:MM:SS]",
	Short: "Overwrite the elapsed time of a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		exitOnError(0, err)

		taskStore, _ := openStore(true)
		defer taskStore.Close()

		exitOnError(taskID, taskStore.UpdateTimer(taskID, args[1]))
		fmt.Printf("✅ Task %d timer set to %s\n", taskID, args[1])
	},
}

func init() {
	timerCmd.AddCommand(timerGetCmd, timerSetCmd)
	rootCmd.AddCommand(addTaskCmd, listTaskCmd, showTaskCmd, doneTaskCmd,
		removeTaskCmd, restoreTaskCmd, countTaskCmd, timerCmd)

	addTaskCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	addTaskCmd.Flags().StringVarP(&taskGoal, "goal", "g", "", "Time goal in minutes")
	addTaskCmd.Flags().BoolVarP(&taskEdit, "edit", "e", false, "Write the description in your editor")
	listTaskCmd.Flags().BoolVarP(&taskAll, "all", "a", false, "Include removed tasks")
	listTaskCmd.Flags().BoolVar(&taskDone, "done", false, "Only completed tasks")
	listTaskCmd.Flags().BoolVar(&taskOpen, "open", false, "Only tasks not completed")
	listTaskCmd.Flags().StringVarP(&taskSearchQuery, "search", "q", "", "Search by title or description")
	listTaskCmd.Flags().IntVar(&taskPageSize, "limit", 20, "Set the number of tasks to display per page (-1 for all)")
	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Show only metadata without the description")
	timerGetCmd.Flags().BoolVarP(&timerCopy, "copy", "c", false, "Copy the elapsed time to the clipboard")
}
