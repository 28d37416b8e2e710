package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/cache/filter"
	"github.com/td-cli/td/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list [FILTER]",
	Short: "List tasks, optionally matching a filter expression",
	Long: `List open tasks from the local cache. The optional FILTER argument is
a filter expression, e.g. 'today & p1' or '#Work & @urgent'. The cache
is refreshed first when it is stale.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if app.mgr.NeedsSync(time.Now().UTC()) {
			if err := app.mgr.Sync(ctx); err != nil {
				return err
			}
		}

		c := app.mgr.Cache()
		items := make([]types.Item, 0, len(c.Items))
		for _, item := range c.Items {
			if !item.Checked {
				items = append(items, item)
			}
		}

		if len(args) == 1 {
			expr, lexErrs, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			for _, lexErr := range lexErrs {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", lexErr)
			}
			ev := filter.NewEvaluator(filterContext(app), userTimezone(app))
			items = ev.Filter(expr, items)
		}

		if app.json {
			return printJSON(items)
		}
		printItems(app, items)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add CONTENT",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		cmdArgs := map[string]any{"content": args[0]}

		if projectName, _ := cmd.Flags().GetString("project"); projectName != "" {
			project, err := app.mgr.ResolveProject(ctx, projectName)
			if err != nil {
				return err
			}
			cmdArgs["project_id"] = project.ID
		}
		if priority, _ := cmd.Flags().GetInt("priority"); priority >= 1 && priority <= 4 {
			// CLI p1 is the most urgent; the wire is inverted.
			cmdArgs["priority"] = 5 - priority
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			cmdArgs["due"] = map[string]any{"string": due}
		}
		if labels, _ := cmd.Flags().GetStringSlice("label"); len(labels) > 0 {
			cmdArgs["labels"] = labels
		}

		tempID := uuid.NewString()
		resp, err := app.mgr.ExecuteCommands(ctx, []api.Command{
			api.NewCommandWithTempID(api.ItemAdd, tempID, cmdArgs),
		})
		if err != nil {
			return err
		}
		if err := firstCommandError(resp); err != nil {
			return err
		}

		if realID, ok := resp.RealID(tempID); ok && !app.quiet {
			fmt.Printf("Added task %s\n", realID)
		}
		return nil
	},
}

var quickCmd = &cobra.Command{
	Use:   "quick TEXT",
	Short: "Add a task using natural language",
	Long: `Create a task in one request using the service's quick-add syntax:
#Project, @label, p1..p4, and date words like "tomorrow at 5pm".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}

		req := api.QuickAddRequest{Text: args[0]}
		if note, _ := cmd.Flags().GetString("note"); note != "" {
			req.Note = note
		}
		if reminder, _ := cmd.Flags().GetString("reminder"); reminder != "" {
			req.Reminder = reminder
		}

		resp, err := app.mgr.Client().QuickAdd(cmd.Context(), req)
		if err != nil {
			return err
		}

		if app.json {
			return printJSON(resp)
		}
		if !app.quiet {
			where := resp.ResolvedProjectName
			if where == "" {
				where = resp.TaskProjectID()
			}
			fmt.Printf("Added task %s in %s\n", resp.TaskID(), where)
		}
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done ID...",
	Short: "Complete one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runItemCommand(cmd, args, boolPtr(false), api.ItemCloseCommand, "Completed")
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen ID...",
	Short: "Reopen completed tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runItemCommand(cmd, args, boolPtr(true), api.ItemUncompleteCommand, "Reopened")
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm ID...",
	Short: "Delete tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runItemCommand(cmd, args, nil, api.ItemDeleteCommand, "Deleted")
	},
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "Project name or ID")
	addCmd.Flags().Int("priority", 0, "Priority 1 (urgent) to 4 (normal)")
	addCmd.Flags().StringP("due", "d", "", "Due date in natural language")
	addCmd.Flags().StringSliceP("label", "l", nil, "Label name (repeatable)")

	quickCmd.Flags().String("note", "", "Attach a comment to the task")
	quickCmd.Flags().String("reminder", "", "Natural-language reminder date")
}

// runItemCommand resolves each prefix and executes one command per task.
func runItemCommand(cmd *cobra.Command, args []string, requireChecked *bool,
	build func(string) api.Command, verb string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	commands := make([]api.Command, 0, len(args))
	ids := make([]string, 0, len(args))
	for _, prefix := range args {
		item, err := app.mgr.ResolveItemByPrefix(ctx, prefix, requireChecked)
		if err != nil {
			return err
		}
		commands = append(commands, build(item.ID))
		ids = append(ids, item.ID)
	}

	resp, err := app.mgr.ExecuteCommands(ctx, commands)
	if err != nil {
		return err
	}
	if err := firstCommandError(resp); err != nil {
		return err
	}

	if !app.quiet {
		fmt.Printf("%s %s\n", verb, strings.Join(ids, ", "))
	}
	return nil
}

// firstCommandError surfaces a per-command failure from the batch.
func firstCommandError(resp *api.SyncResponse) error {
	for cmdUUID, cmdErr := range resp.Errors() {
		return fmt.Errorf("command %s failed: %s (code %d)", cmdUUID, cmdErr.Error, cmdErr.ErrorCode)
	}
	return nil
}

func filterContext(app *appContext) filter.Context {
	c := app.mgr.Cache()
	fc := filter.Context{}
	for _, p := range c.Projects {
		if !p.IsDeleted {
			fc.Projects = append(fc.Projects, p)
		}
	}
	for _, s := range c.Sections {
		if !s.IsDeleted {
			fc.Sections = append(fc.Sections, s)
		}
	}
	for _, l := range c.Labels {
		if !l.IsDeleted {
			fc.Labels = append(fc.Labels, l)
		}
	}
	return fc
}

func userTimezone(app *appContext) string {
	return app.mgr.Cache().User.Location()
}

func printItems(app *appContext, items []types.Item) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, item := range items {
		id := item.ID
		if len(id) > 6 {
			id = id[:6]
		}
		due := ""
		if item.Due != nil {
			due = item.Due.Date
		}
		// Render the wire priority back to the CLI scale, clamping
		// malformed records into 1..4.
		priority := item.Priority
		if priority < 1 {
			priority = 1
		} else if priority > 4 {
			priority = 4
		}
		fmt.Fprintf(w, "%s\tp%d\t%s\t%s\n", id, 5-priority, due, item.Content)
	}
	w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func boolPtr(b bool) *bool {
	return &b
}
