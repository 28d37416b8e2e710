package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the local cache with the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		full, _ := cmd.Flags().GetBool("full")
		if full {
			err = app.mgr.FullSync(ctx)
		} else {
			err = app.mgr.Sync(ctx)
		}
		if err != nil {
			return err
		}

		if !app.quiet {
			c := app.mgr.Cache()
			fmt.Printf("Synced %d tasks across %d projects\n", len(c.Items), len(c.Projects))
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		if err := app.mgr.Store().Delete(); err != nil {
			return err
		}
		if !app.quiet {
			fmt.Println("Cache cleared")
		}
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		fmt.Println(app.mgr.Store().Path())
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("full", false, "Force a full sync, replacing all cached data")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}
