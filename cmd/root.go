package cmd

import (
	"fmt"
	"log"
	"os"

	"typethrough/logger"
	"typethrough/server"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "typethrough",
	Short: "Keeps inline completions aligned with what you type",
	Long: `typethrough serves Neovim over msgpack-rpc. Run without arguments it acts
as a client: it relays stdio to the background daemon, starting the daemon
when it is not running yet.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runClient,
}

// loadConfig reads the JSON config from the environment.
func loadConfig() (server.Config, error) {
	config, err := server.ParseConfig(os.Getenv(server.ConfigEnv))
	if err != nil {
		return server.Config{}, fmt.Errorf("invalid config in %s: %w", server.ConfigEnv, err)
	}
	return config, nil
}

// setupLogger sends all logging to the log file next to the executable.
// Caller must Close the returned logger.
func setupLogger(paths server.Paths, levelName string) (*logger.Logger, error) {
	level, ok := logger.ParseLevel(levelName)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", levelName)
	}

	l, err := logger.OpenFile(paths.Log, level)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(l)
	log.SetOutput(l)
	return l, nil
}

func runClient(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := server.DefaultPaths()
	if err != nil {
		return err
	}

	l, err := setupLogger(paths, config.LogLevel)
	if err != nil {
		return err
	}
	defer l.Close()

	client := server.NewClient(paths, daemonCmd.Name())
	if err := client.EnsureDaemonRunning(); err != nil {
		return fmt.Errorf("ensuring daemon is running: %w", err)
	}
	if err := client.Connect(); err != nil {
		return fmt.Errorf("connecting to daemon: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
