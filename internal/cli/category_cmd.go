package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/cli/formatter"
	"github.com/taskasaurus/taskrex/internal/domain"
)

func newCategoryCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		newCategoryListCmd(a),
		newCategoryAddCmd(a),
		newCategoryShowCmd(a),
		newCategoryUpdateCmd(a),
		newCategoryRemoveCmd(a),
		newCategoryStatsCmd(a),
	)

	return cmd
}

func newCategoryListCmd(a *App) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Categories.List(cmd.Context(), app.PageRequest{Offset: skip, Limit: limit})
			if err != nil {
				return err
			}
			return a.render(cmd, res, func() string {
				return formatter.FormatCategoryList(res)
			})
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "results to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for the default)")
	return cmd
}

func newCategoryAddCmd(a *App) *cobra.Command {
	var color, icon, description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Categories.Create(cmd.Context(), app.CreateCategoryInput{
				Name:        args[0],
				Color:       color,
				Icon:        optionalString(icon),
				Description: optionalString(description),
			})
			if err != nil {
				return err
			}
			return a.render(cmd, c, func() string {
				return fmt.Sprintf("Created category %s %s\n", formatter.TruncID(c.ID), formatter.CategoryLabel(c.Name, c.Color))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&color, "color", "", "hex colour such as #FF8800 (default #808080)")
	f.StringVar(&icon, "icon", "", "icon name")
	f.StringVarP(&description, "description", "d", "", "description")
	return cmd
}

func newCategoryShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Show a category with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveCategoryID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			detail, err := a.Categories.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd, detail, func() string {
				return formatter.FormatCategoryDetail(detail, a.now()) + "\n"
			})
		},
	}
}

func newCategoryUpdateCmd(a *App) *cobra.Command {
	var name, color, icon, description string

	cmd := &cobra.Command{
		Use:   "update ID|NAME",
		Short: "Change the given fields of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			id, err := resolveCategoryID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}

			var in app.UpdateCategoryInput
			if f.Changed("name") {
				in.Name = domain.Some(name)
			}
			if f.Changed("color") {
				in.Color = domain.Some(color)
			}
			if f.Changed("icon") {
				in.Icon = domain.Some(optionalString(icon))
			}
			if f.Changed("description") {
				in.Description = domain.Some(optionalString(description))
			}

			c, err := a.Categories.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return a.render(cmd, c, func() string {
				return fmt.Sprintf("Updated category %s %s\n", formatter.TruncID(c.ID), formatter.CategoryLabel(c.Name, c.Color))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&color, "color", "", "new hex colour")
	f.StringVar(&icon, "icon", "", "new icon (empty clears it)")
	f.StringVarP(&description, "description", "d", "", "new description (empty clears it)")
	return cmd
}

func newCategoryRemoveCmd(a *App) *cobra.Command {
	var reassignTo string

	cmd := &cobra.Command{
		Use:     "rm ID|NAME",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a category, moving or detaching its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCategoryID(ctx, a, args[0])
			if err != nil {
				return err
			}
			var target *string
			if reassignTo != "" {
				tid, err := resolveCategoryID(ctx, a, reassignTo)
				if err != nil {
					return err
				}
				target = &tid
			}

			res, err := a.Categories.Delete(ctx, id, target)
			if err != nil {
				return err
			}
			return a.render(cmd, res, func() string {
				return formatter.FormatCategoryDeleted(res)
			})
		},
	}
	cmd.Flags().StringVar(&reassignTo, "reassign-to", "", "category that receives the tasks (default: leave them uncategorised)")
	return cmd
}

func newCategoryStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats ID|NAME",
		Short: "Count a category's tasks by status and priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveCategoryID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			stats, err := a.Categories.Stats(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd, stats, func() string {
				return formatter.FormatCategoryStats(stats)
			})
		},
	}
}
