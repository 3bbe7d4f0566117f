package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	"github.com/tnxqso/rf2k-launcher/internal/bytesize"
	"github.com/tnxqso/rf2k-launcher/internal/cli/output"
	"github.com/tnxqso/rf2k-launcher/internal/cli/timeutil"
	"github.com/tnxqso/rf2k-launcher/pkg/config"
	"github.com/tnxqso/rf2k-launcher/pkg/engine"
	"github.com/tnxqso/rf2k-launcher/pkg/handoff"
	"github.com/tnxqso/rf2k-launcher/pkg/instancelock"
	"github.com/tnxqso/rf2k-launcher/pkg/statedir"
)

// engineLogPattern matches the engine's log and measurement files.
const engineLogPattern = "**/*.{log,csv}"

var statusOutput string

// Status is the launcher's view of its installation.
type Status struct {
	StateDir       string              `json:"state_dir" yaml:"state_dir"`
	StateSource    string              `json:"state_source" yaml:"state_source"`
	LauncherDir    string              `json:"launcher_dir" yaml:"launcher_dir"`
	Lock           instancelock.Record `json:"lock" yaml:"lock"`
	Settings       SettingsStatus      `json:"settings" yaml:"settings"`
	Engine         EngineStatus        `json:"engine" yaml:"engine"`
	Logs           LogInventory        `json:"logs" yaml:"logs"`
	UpdatePending  bool                `json:"update_pending" yaml:"update_pending"`
	UpdateLog      string              `json:"update_log,omitempty" yaml:"update_log,omitempty"`
	LauncherConfig string              `json:"launcher_config" yaml:"launcher_config"`
	Metrics        string              `json:"metrics_textfile,omitempty" yaml:"metrics_textfile,omitempty"`
}

// SettingsStatus describes settings.yml.
type SettingsStatus struct {
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
}

// EngineStatus describes where the engine would be started from.
type EngineStatus struct {
	Found    bool     `json:"found" yaml:"found"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Args     []string `json:"args,omitempty" yaml:"args,omitempty"`
	Strategy string   `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// LogInventory summarizes the engine's logs directory.
type LogInventory struct {
	Dir       string            `json:"dir" yaml:"dir"`
	Files     int               `json:"files" yaml:"files"`
	Size      bytesize.ByteSize `json:"size" yaml:"size"`
	Newest    string            `json:"newest,omitempty" yaml:"newest,omitempty"`
	WarnSize  bytesize.ByteSize `json:"warn_size" yaml:"warn_size"`
	OverLimit bool              `json:"over_limit" yaml:"over_limit"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show launcher status",
	Long: `Show where the launcher keeps its state, whether another launcher is
running, which engine it would start and how large the engine's logs are.

Examples:
  # Human-readable summary
  rf2k-launcher status

  # Machine-readable
  rf2k-launcher status -o json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	cfg, state, launcherDir, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	status, err := collectStatus(cfg, state, launcherDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != output.FormatTable {
		return output.Render(out, format, status)
	}

	if err := output.SimpleTable(out, status.pairs()); err != nil {
		return err
	}
	if status.Logs.OverLimit {
		p := output.NewPrinter(out, false)
		p.Println()
		p.Warning(fmt.Sprintf("Engine logs use %s; consider running \"clear logs\" from the menu.", status.Logs.Size))
	}
	return nil
}

func collectStatus(cfg *config.Config, state statedir.StateDirectory, launcherDir string) (*Status, error) {
	status := &Status{
		StateDir:       state.Path,
		StateSource:    string(state.Source),
		LauncherDir:    launcherDir,
		LauncherConfig: cmdutil.ConfigPath(state),
	}

	lock, err := instancelock.Inspect(filepath.Join(state.Path, cfg.Lock.File))
	if err != nil {
		return nil, err
	}
	status.Lock = lock

	status.Settings.Path = state.Join(cfg.Setup.ConfigFile)
	_, err = os.Stat(status.Settings.Path)
	status.Settings.Exists = err == nil

	runner := engine.NewRunner(engine.Options{
		LauncherDir:  launcherDir,
		Path:         cfg.Engine.Path,
		Name:         cfg.Engine.Name,
		InstallDir:   cfg.Engine.InstallDir,
		SourceEntry:  cfg.Engine.SourceEntry,
		Interpreters: cfg.Engine.Interpreters,
	})
	if command, err := runner.Locate(); err != nil {
		status.Engine.Error = err.Error()
	} else {
		status.Engine = EngineStatus{Found: true, Path: command.Path, Args: command.Args, Strategy: command.Strategy}
	}

	inv, err := inventoryLogs(state.LogsDir())
	if err != nil {
		return nil, err
	}
	inv.WarnSize = cfg.Logs.WarnSize
	inv.OverLimit = inv.WarnSize > 0 && inv.Size > inv.WarnSize
	status.Logs = inv

	detector := &handoff.Detector{StateDir: state.Path, SentinelName: cfg.Update.SentinelFile}
	if _, err := os.Stat(detector.SentinelPath()); err == nil {
		status.UpdatePending = true
	}
	if cfg.Update.Supported {
		status.UpdateLog = cfg.Update.LogPath
	}

	if cfg.Metrics.Enabled {
		status.Metrics = state.Join(cfg.Metrics.Textfile)
	}
	return status, nil
}

// inventoryLogs counts the engine's log files under dir. A missing
// directory is an empty inventory.
func inventoryLogs(dir string) (LogInventory, error) {
	inv := LogInventory{Dir: dir}

	files, err := engineLogFiles(dir)
	if err != nil {
		return inv, err
	}
	for _, f := range files {
		inv.Files++
		inv.Size += bytesize.ByteSize(f.size)
	}
	if len(files) > 0 {
		inv.Newest = files[0].path
	}
	return inv, nil
}

type engineLog struct {
	path    string
	size    int64
	modTime int64
}

// engineLogFiles lists log files under dir, newest first.
func engineLogFiles(dir string) ([]engineLog, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), engineLogPattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list logs in %s: %w", dir, err)
	}

	files := make([]engineLog, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		files = append(files, engineLog{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime > files[j].modTime })
	return files, nil
}

func (s *Status) pairs() [][2]string {
	lock := "not held"
	switch {
	case s.Lock.Alive:
		lock = "held by PID " + strconv.Itoa(s.Lock.PID)
	case s.Lock.Stale():
		lock = "stale (removed on next start)"
	}

	settingsState := s.Settings.Path
	if !s.Settings.Exists {
		settingsState += " (missing, created on next start)"
	}

	engineState := s.Engine.Error
	if s.Engine.Found {
		engineState = fmt.Sprintf("%s (%s)", s.Engine.Path, s.Engine.Strategy)
	}

	logs := fmt.Sprintf("%d files, %s", s.Logs.Files, s.Logs.Size)
	if s.Logs.Newest != "" {
		if info, err := os.Stat(s.Logs.Newest); err == nil {
			logs += ", newest " + timeutil.FormatTime(info.ModTime())
		}
	}

	pairs := [][2]string{
		{"State directory", fmt.Sprintf("%s (%s)", s.StateDir, s.StateSource)},
		{"Launcher directory", s.LauncherDir},
		{"Instance lock", lock},
		{"Settings", settingsState},
		{"Engine", engineState},
		{"Engine logs", logs},
		{"Launcher config", s.LauncherConfig},
	}
	if s.UpdatePending {
		pairs = append(pairs, [2]string{"Update", "sentinel present, update in progress"})
	}
	if s.UpdateLog != "" {
		pairs = append(pairs, [2]string{"Update log", s.UpdateLog})
	}
	if s.Metrics != "" {
		pairs = append(pairs, [2]string{"Metrics", s.Metrics})
	}
	return pairs
}
