package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/cache"
	"github.com/td-cli/td/pkg/config"
	"github.com/td-cli/td/pkg/log"
	"github.com/td-cli/td/pkg/manager"
	"github.com/td-cli/td/pkg/token"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(api.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "td - command-line client for your task list",
	Long: `td keeps a local cache of your tasks, projects, labels, and filters
synchronized with the hosted service, so listing is instant and every
mutation is a single round-trip.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"td version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Global flags
	rootCmd.PersistentFlags().String("token", "", "API token (overrides env, config, and keyring)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

func initLogging() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	log.Init(log.Config{Level: level, NoColor: noColor})
}

// appContext bundles everything a subcommand needs: loaded config, the
// sync manager, and the output flags.
type appContext struct {
	cfg     *config.Config
	cfgPath string
	mgr     *manager.Manager
	json    bool
	quiet   bool
}

// newAppContext locates the token and builds an authenticated manager.
func newAppContext(cmd *cobra.Command) (*appContext, error) {
	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	override, _ := cmd.Flags().GetString("token")
	tok, err := token.Resolve(override, cfg)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(tok)
	store := cache.NewStore()
	mgr, err := manager.New(client, store)
	if err != nil {
		return nil, err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return &appContext{
		cfg:     cfg,
		cfgPath: cfgPath,
		mgr:     mgr,
		json:    jsonOut,
		quiet:   quiet,
	}, nil
}
