package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
)

var (
	logsFollow bool
	logsLines  int
	logsSince  string
	logsEngine bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Tail launcher or engine logs",
	Long: `Display and optionally follow the launcher log, or with --engine the most
recently written engine log in the state directory's logs folder.

Examples:
  # Show last 100 lines of the launcher log
  rf2k-launcher logs

  # Follow the newest engine log
  rf2k-launcher logs --engine -f

  # Show entries since a specific time
  rf2k-launcher logs --since "2026-03-01T18:00:00Z"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 100, "Number of lines to show")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since timestamp (RFC3339 format)")
	logsCmd.Flags().BoolVar(&logsEngine, "engine", false, "Show the newest engine log instead of the launcher log")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, state, _, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	var logFile string
	if logsEngine {
		files, err := engineLogFiles(state.LogsDir())
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no engine logs found in %s", state.LogsDir())
		}
		logFile = files[0].path
	} else {
		out := cfg.Logging.Output
		if out == "stdout" || out == "stderr" {
			return fmt.Errorf("launcher is configured to log to %s, not a file\nSet 'logging.output' in launcher.yaml to a file path to use this command", out)
		}
		logFile = state.Join(out)
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s\nThe launcher may not have run yet", logFile)
	}

	var since time.Time
	if logsSince != "" {
		since, err = time.Parse(time.RFC3339, logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since format (use RFC3339): %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if logsFollow {
		return followLogs(w, logFile, logsLines, since)
	}
	return showLogs(w, logFile, logsLines, since)
}

// showLogs writes the last lines entries of logFile at or after since.
func showLogs(w io.Writer, logFile string, lines int, since time.Time) error {
	file, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	selected, err := tailLines(file, lines, since)
	if err != nil {
		return err
	}
	for _, line := range selected {
		_, _ = fmt.Fprintln(w, line)
	}
	return nil
}

// tailLines returns the last n lines of r, skipping lines timestamped
// before since. Lines without a recognizable timestamp are kept.
func tailLines(r io.Reader, n int, since time.Time) ([]string, error) {
	var all []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !since.IsZero() {
			if t := extractTimestamp(line); !t.IsZero() && t.Before(since) {
				continue
			}
		}
		all = append(all, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	if n >= 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// followLogs prints the tail of logFile and then new lines as they are written.
func followLogs(w io.Writer, logFile string, initialLines int, since time.Time) error {
	if err := showLogs(w, logFile, initialLines, since); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(logFile); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	file, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of log file: %w", err)
	}
	reader := bufio.NewReader(file)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Following %s (Ctrl+C to stop)...\n", logFile)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				for {
					line, err := reader.ReadString('\n')
					if err != nil {
						break
					}
					_, _ = fmt.Fprint(w, line)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Launcher text lines start with "[2006-01-02 15:04:05]" in local time.
const textTimestampLayout = "2006-01-02 15:04:05"

// extractTimestamp finds a timestamp in a log line: the launcher's bracketed
// text prefix, an RFC3339 prefix, or a JSON "time" field.
func extractTimestamp(line string) time.Time {
	if len(line) > len(textTimestampLayout)+1 && line[0] == '[' {
		if t, err := time.ParseInLocation(textTimestampLayout, line[1:1+len(textTimestampLayout)], time.Local); err == nil {
			return t
		}
	}

	if fields := strings.Fields(line); len(fields) > 0 {
		if t, err := time.Parse(time.RFC3339Nano, fields[0]); err == nil {
			return t
		}
	}

	const timeKey = `"time":"`
	if idx := strings.Index(line, timeKey); idx >= 0 {
		start := idx + len(timeKey)
		if end := strings.IndexByte(line[start:], '"'); end > 0 {
			if t, err := time.Parse(time.RFC3339Nano, line[start:start+end]); err == nil {
				return t
			}
		}
	}

	return time.Time{}
}
