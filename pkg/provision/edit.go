package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/tnxqso/rf2k-launcher/internal/logger"
)

// EditResult reports what happened when the editor was offered.
type EditResult struct {
	Offered bool
	Opened  bool
	Saved   bool
}

// OfferEdit asks whether to open a freshly created settings file in an
// editor and blocks until the editor exits. Editor failures are reported to
// Out and logged, never returned; only a failed prompt is an error.
func (p *Provisioner) OfferEdit(ctx context.Context, cfg ConfigFile) (EditResult, error) {
	var res EditResult
	if !cfg.Created() || p.Confirm == nil {
		return res, nil
	}

	res.Offered = true
	ok, err := p.Confirm.Confirm(fmt.Sprintf("Open %s in an editor now", filepath.Base(cfg.Path)), true)
	if err != nil {
		return res, err
	}
	if !ok {
		_, _ = fmt.Fprintf(p.out(), "You can edit %s later.\n", cfg.Path)
		return res, nil
	}

	editor := ResolveEditor(p.Editor)
	before, _ := os.Stat(cfg.Path)
	stop, saved := watchSaves(cfg.Path)
	defer stop()

	run := p.runEditor
	if run == nil {
		run = runEditor
	}

	logger.InfoCtx(ctx, "opening editor", "editor", strings.Join(editor, " "), logger.KeyPath, cfg.Path)
	if err := run(editor, cfg.Path); err != nil {
		logger.WarnCtx(ctx, "editor failed", logger.Err(err))
		_, _ = fmt.Fprintf(p.out(), "Could not open an editor (%v). Edit %s manually.\n", err, cfg.Path)
		return res, nil
	}

	res.Opened = true
	stop()
	res.Saved = saved.Load()
	if !res.Saved {
		// Editors that write in place may finish before the watcher fires.
		res.Saved = changedSince(cfg.Path, before)
	}
	logger.DebugCtx(ctx, "editor closed", "saved", res.Saved)
	return res, nil
}

// ResolveEditor picks the editor command: the configured one, then
// $VISUAL, then $EDITOR, then the platform default.
func ResolveEditor(configured string) []string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}

// Edit opens path in the resolved editor and waits for it to exit.
func Edit(configured, path string) error {
	return runEditor(ResolveEditor(configured), path)
}

func runEditor(editor []string, path string) error {
	args := append(append([]string{}, editor[1:]...), path)
	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor[0], err)
	}
	return nil
}

// watchSaves watches the file's directory (editors often replace files by
// rename) and flags any write or create of the file.
func watchSaves(path string) (stop func(), saved *atomic.Bool) {
	saved = new(atomic.Bool)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("file watcher unavailable", logger.Err(err))
		return func() {}, saved
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Debug("file watcher unavailable", logger.Err(err))
		_ = watcher.Close()
		return func() {}, saved
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == filepath.Clean(path) &&
					(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					saved.Store(true)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	var stopped atomic.Bool
	stop = func() {
		if stopped.Swap(true) {
			return
		}
		_ = watcher.Close()
		<-done
	}
	return stop, saved
}

func changedSince(path string, before os.FileInfo) bool {
	after, err := os.Stat(path)
	if err != nil || before == nil {
		return false
	}
	return after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime())
}
