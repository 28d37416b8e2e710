package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		if err := syncIfStale(cmd, app); err != nil {
			return err
		}

		c := app.mgr.Cache()
		if app.json {
			return printJSON(c.Projects)
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, p := range c.Projects {
			if p.IsDeleted || p.IsArchived {
				continue
			}
			marker := ""
			if p.InboxProject {
				marker = "(inbox)"
			} else if app.mgr.IsSharedProject(p.ID) {
				marker = "(shared)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, marker)
		}
		return w.Flush()
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [PROJECT]",
	Short: "List sections, optionally scoped to a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := syncIfStale(cmd, app); err != nil {
			return err
		}

		projectID := ""
		if len(args) == 1 {
			project, err := app.mgr.ResolveProject(ctx, args[0])
			if err != nil {
				return err
			}
			projectID = project.ID
		}

		c := app.mgr.Cache()
		if app.json {
			return printJSON(c.Sections)
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, s := range c.Sections {
			if s.IsDeleted || (projectID != "" && s.ProjectID != projectID) {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
		}
		return w.Flush()
	},
}

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		if err := syncIfStale(cmd, app); err != nil {
			return err
		}

		c := app.mgr.Cache()
		if app.json {
			return printJSON(c.Labels)
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, l := range c.Labels {
			if l.IsDeleted {
				continue
			}
			fmt.Fprintf(w, "%s\t@%s\n", l.ID, l.Name)
		}
		return w.Flush()
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments TASK",
	Short: "List comments on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		item, err := app.mgr.ResolveItemByPrefix(ctx, args[0], nil)
		if err != nil {
			return err
		}

		c := app.mgr.Cache()
		if app.json {
			return printJSON(c.Notes)
		}
		for _, note := range c.Notes {
			if note.IsDeleted || note.ItemID != item.ID {
				continue
			}
			fmt.Printf("%s  %s\n", note.PostedAt, note.Content)
		}
		return nil
	},
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List saved filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		if err := syncIfStale(cmd, app); err != nil {
			return err
		}

		c := app.mgr.Cache()
		if app.json {
			return printJSON(c.Filters)
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, f := range c.Filters {
			if f.IsDeleted {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Name, f.Query)
		}
		return w.Flush()
	},
}

func syncIfStale(cmd *cobra.Command, app *appContext) error {
	if app.mgr.NeedsSync(time.Now().UTC()) {
		return app.mgr.Sync(cmd.Context())
	}
	return nil
}
