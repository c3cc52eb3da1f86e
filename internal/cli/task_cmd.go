package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/cli/formatter"
	"github.com/taskasaurus/taskrex/internal/domain"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskAddCmd(a),
		newTaskShowCmd(a),
		newTaskUpdateCmd(a),
		newTaskDoneCmd(a),
		newTaskRemoveCmd(a),
		newTaskDuplicateCmd(a),
		newTaskSubtasksCmd(a),
		newTaskOverdueCmd(a),
		newTaskUpcomingCmd(a),
	)

	return cmd
}

// printTasks renders a task page with category names resolved.
func (a *App) printTasks(cmd *cobra.Command, res *app.TaskListResult) error {
	cats, err := categoryNames(cmd.Context(), a)
	if err != nil {
		return err
	}
	return a.render(cmd, res, func() string {
		return formatter.FormatTaskList(res, cats, a.now())
	})
}

func newTaskListCmd(a *App) *cobra.Command {
	var (
		category, search, from, to, sortBy, order string
		skip, limit                               int
	)
	status, priority := statusFlag(), priorityFlag()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with filters, sorting and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := app.ListTasksRequest{
				Status:   status.String(),
				Priority: priority.String(),
				Search:   search,
				SortBy:   sortBy,
				Order:    order,
				Offset:   skip,
				Limit:    limit,
			}
			if category != "" {
				id, err := resolveCategoryID(ctx, a, category)
				if err != nil {
					return err
				}
				req.CategoryID = id
			}
			if from != "" {
				d, err := calendar.ParseDate("from", from, a.location())
				if err != nil {
					return err
				}
				req.DueFrom = &d
			}
			if to != "" {
				d, err := calendar.ParseDate("to", to, a.location())
				if err != nil {
					return err
				}
				end := calendar.DayEnd(d, a.location())
				req.DueTo = &end
			}

			res, err := a.Tasks.List(ctx, req)
			if err != nil {
				return err
			}
			return a.printTasks(cmd, res)
		},
	}

	f := cmd.Flags()
	f.Var(status, "status", "filter by status")
	f.Var(priority, "priority", "filter by priority")
	f.StringVarP(&category, "category", "c", "", "filter by category id or name")
	f.StringVarP(&search, "search", "s", "", "case-insensitive substring of title or description")
	f.StringVar(&from, "from", "", "due on or after this date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "due on or before this date (YYYY-MM-DD)")
	f.StringVar(&sortBy, "sort", "", "created_at, updated_at, due_date, title, status or priority")
	f.StringVar(&order, "order", "", "asc or desc")
	f.IntVar(&skip, "skip", 0, "results to skip")
	f.IntVar(&limit, "limit", 0, "maximum results (0 for the default)")

	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	var description, due, category, parent string
	status, priority := statusFlag(), priorityFlag()

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := app.CreateTaskInput{
				Title:       args[0],
				Description: optionalString(description),
				Status:      status.String(),
				Priority:    priority.String(),
			}
			if due != "" {
				d, err := parseDue(due, a.location())
				if err != nil {
					return err
				}
				in.DueDate = &d
			}
			if category != "" {
				id, err := resolveCategoryID(ctx, a, category)
				if err != nil {
					return err
				}
				in.CategoryID = &id
			}
			if parent != "" {
				id, err := resolveTaskID(ctx, a, parent)
				if err != nil {
					return err
				}
				in.ParentID = &id
			}

			task, err := a.Tasks.Create(ctx, in)
			if err != nil {
				return err
			}
			return a.render(cmd, task, func() string {
				return fmt.Sprintf("Created task %s %s\n", formatter.TruncID(task.ID), formatter.Bold(task.Title))
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&description, "description", "d", "", "task description")
	f.Var(status, "status", "initial status (default pending)")
	f.VarP(priority, "priority", "p", "priority (default medium)")
	f.StringVar(&due, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	f.StringVarP(&category, "category", "c", "", "category id or name")
	f.StringVar(&parent, "parent", "", "parent task id")

	return cmd
}

func newTaskShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its category and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			detail, err := a.Tasks.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd, detail, func() string {
				return formatter.FormatTaskDetail(detail, a.now()) + "\n"
			})
		},
	}
}

func newTaskUpdateCmd(a *App) *cobra.Command {
	var (
		title, description, due, category string
		clearDue, clearCategory           bool
	)
	status, priority := statusFlag(), priorityFlag()

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := cmd.Flags()
			id, err := resolveTaskID(ctx, a, args[0])
			if err != nil {
				return err
			}

			var in app.UpdateTaskInput
			if f.Changed("title") {
				in.Title = domain.Some(title)
			}
			if f.Changed("description") {
				in.Description = domain.Some(optionalString(description))
			}
			if f.Changed("status") {
				in.Status = domain.Some(status.String())
			}
			if f.Changed("priority") {
				in.Priority = domain.Some(priority.String())
			}
			switch {
			case clearDue:
				in.DueDate = domain.Some[*time.Time](nil)
			case f.Changed("due"):
				d, err := parseDue(due, a.location())
				if err != nil {
					return err
				}
				in.DueDate = domain.Some(&d)
			}
			switch {
			case clearCategory:
				in.CategoryID = domain.Some[*string](nil)
			case f.Changed("category"):
				cid, err := resolveCategoryID(ctx, a, category)
				if err != nil {
					return err
				}
				in.CategoryID = domain.Some(&cid)
			}

			task, err := a.Tasks.Update(ctx, id, in)
			if err != nil {
				return err
			}
			return a.render(cmd, task, func() string {
				return fmt.Sprintf("Updated task %s %s\n", formatter.TruncID(task.ID), formatter.Bold(task.Title))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "new title")
	f.StringVarP(&description, "description", "d", "", "new description (empty clears it)")
	f.Var(status, "status", "new status")
	f.VarP(priority, "priority", "p", "new priority")
	f.StringVar(&due, "due", "", "new due date (YYYY-MM-DD or RFC 3339)")
	f.BoolVar(&clearDue, "clear-due", false, "remove the due date")
	f.StringVarP(&category, "category", "c", "", "new category id or name")
	f.BoolVar(&clearCategory, "clear-category", false, "remove the category")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("category", "clear-category")

	return cmd
}

func newTaskDoneCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			task, err := a.Tasks.UpdateStatus(cmd.Context(), id, string(domain.StatusCompleted))
			if err != nil {
				return err
			}
			return a.render(cmd, task, func() string {
				return fmt.Sprintf("%s %s\n", formatter.StatusPill(task.Status), task.Title)
			})
		},
	}
}

func newTaskRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task and all of its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return a.render(cmd, map[string]any{"deleted": true, "id": id}, func() string {
				return fmt.Sprintf("Deleted task %s\n", formatter.TruncID(id))
			})
		},
	}
}

func newTaskDuplicateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dup ID",
		Aliases: []string{"duplicate"},
		Short:   "Copy a task as a new pending task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			task, err := a.Tasks.Duplicate(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd, task, func() string {
				return fmt.Sprintf("Created task %s %s\n", formatter.TruncID(task.ID), formatter.Bold(task.Title))
			})
		},
	}
}

func newTaskSubtasksCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subtasks ID",
		Short: "List the direct subtasks of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.Subtasks(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printTasks(cmd, &app.TaskListResult{Tasks: tasks, Total: len(tasks)})
		},
	}
}

func newTaskOverdueCmd(a *App) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List open tasks whose due date has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Tasks.Overdue(cmd.Context(), app.PageRequest{Offset: skip, Limit: limit})
			if err != nil {
				return err
			}
			return a.printTasks(cmd, res)
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "results to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for the default)")
	return cmd
}

func newTaskUpcomingCmd(a *App) *cobra.Command {
	var days int
	priority := priorityFlag()

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List open tasks due within the next few days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.Tasks.Upcoming(cmd.Context(), days, priority.String())
			if err != nil {
				return err
			}
			return a.printTasks(cmd, &app.TaskListResult{Tasks: tasks, Total: len(tasks)})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "look-ahead window in days (1-365)")
	cmd.Flags().Var(priority, "priority", "only this priority")
	return cmd
}
