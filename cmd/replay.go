package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"typethrough/logger"
	"typethrough/metrics"
	"typethrough/replay"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <files...>",
	Short: "Replay recorded editing sessions",
	Long: `Replay recorded sessions against the suggestion engine and report every
step whose ghost text differs from the recording.

Recordings are YAML streams (.yaml, .yml) or JSON Lines (.jsonl), optionally
brotli compressed (.br).

Example:
  typethrough replay sessions.yaml
  typethrough replay --diff captures/*.jsonl.br
  typethrough replay --compress captures/*.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

var (
	replayDiff     bool
	replayVerbose  bool
	replayStats    bool
	replayCompress bool
)

var ErrReplayFailed = errors.New("replay failed")

func init() {
	replayCmd.Flags().BoolVar(&replayDiff, "diff", false, "show an inline diff for mismatched ghost text")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "also list passing steps")
	replayCmd.Flags().BoolVar(&replayStats, "stats", false, "print suggestion statistics as JSON")
	replayCmd.Flags().BoolVar(&replayCompress, "compress", false, "write a brotli copy (.br) of every loaded recording")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	if level, ok := logger.ParseLevel(config.LogLevel); ok {
		logger.SetDefault(logger.New(cmd.ErrOrStderr(), level))
	}

	var sessions []replay.Session
	for _, path := range args {
		loaded, err := replay.LoadFile(path)
		if err != nil {
			return err
		}
		sessions = append(sessions, loaded...)

		if replayCompress {
			out, err := replay.CompressFile(path)
			if err != nil {
				return err
			}
			logger.Info("compressed %s to %s", path, out)
		}
	}

	tracker := metrics.NewTracker()
	results := replay.Run(sessions, tracker)

	out := cmd.OutOrStdout()
	writeResults(out, results, replayVerbose, replayDiff)

	failed := replay.Failed(results)
	fmt.Fprintf(out, "%d sessions, %d steps, %d failed\n", len(sessions), len(results), failed)

	if replayStats {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tracker.Snapshot()); err != nil {
			return fmt.Errorf("encoding stats: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d steps: %w", failed, len(results), ErrReplayFailed)
	}
	return nil
}

func writeResults(w io.Writer, results []replay.Result, verbose, diff bool) {
	for _, r := range results {
		if r.Passed && !verbose {
			continue
		}
		fmt.Fprintln(w, r)
		if diff {
			if d := r.Diff(); d != "" {
				fmt.Fprintf(w, "    %q\n", d)
			}
		}
	}
}
