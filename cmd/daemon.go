package cmd

import (
	"fmt"

	"typethrough/logger"
	"typethrough/server"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background daemon",
	Long: `Run the daemon that Neovim clients connect to. It listens on a unix socket
next to the executable, writes a PID file there and exits once no client
has been connected for a while.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
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

	logger.Info("config: %+v", config)

	daemon := server.NewDaemon(config, paths)
	if err := daemon.Start(); err != nil {
		return fmt.Errorf("running daemon: %w", err)
	}
	return nil
}
