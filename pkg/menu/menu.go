// Package menu implements the launcher's numbered command menu.
//
// Each selection maps to a fixed set of engine arguments. The menu is
// redisplayed after every run until the user exits or a dispatch asks to
// terminate (an update handoff).
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tnxqso/rf2k-launcher/internal/cli/output"
	"github.com/tnxqso/rf2k-launcher/internal/cli/prompt"
	"github.com/tnxqso/rf2k-launcher/internal/logger"
)

// Action tells the menu what to do after a dispatch.
type Action int

const (
	Continue Action = iota
	Terminate
)

var errCancelled = errors.New("cancelled")

// Dispatcher runs a selection.
type Dispatcher interface {
	Dispatch(ctx context.Context, choice Choice, args []string) (Action, error)
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(ctx context.Context, choice Choice, args []string) (Action, error)

func (f DispatchFunc) Dispatch(ctx context.Context, choice Choice, args []string) (Action, error) {
	return f(ctx, choice, args)
}

// Menu is the interactive selection loop.
type Menu struct {
	Title            string
	UpdatesSupported bool
	Prompter         Prompter
	Dispatcher       Dispatcher
	Printer          *output.Printer
}

// Loop shows the menu until the user exits or a dispatch returns Terminate.
// End of input counts as exit. A Ctrl+C at a prompt returns prompt.ErrAborted.
func (m *Menu) Loop(ctx context.Context) error {
	options := Options(m.UpdatesSupported)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		key, err := m.Prompter.ReadChoice(m.title(), options)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		choice, ok := ParseChoice(key, m.UpdatesSupported)
		if !ok {
			logger.DebugCtx(ctx, "unrecognized menu input", "input", key)
			m.printer().Warning(fmt.Sprintf("Unrecognized selection %q", key))
			continue
		}
		if choice == ChoiceExit {
			return nil
		}

		args, err := m.args(choice)
		if err != nil {
			if errors.Is(err, ErrNoBands) {
				m.printer().Warning("No bands entered")
				continue
			}
			if errors.Is(err, errCancelled) {
				continue
			}
			return err
		}

		action, err := m.Dispatcher.Dispatch(ctx, choice, args)
		if err != nil {
			return err
		}
		if action == Terminate {
			return nil
		}
	}
}

func (m *Menu) args(choice Choice) ([]string, error) {
	var bands string
	if choice.NeedsBands() {
		label := "Bands to run (e.g. 20 40 80)"
		if choice == ChoiceDebug {
			label = "Bands to debug (empty for all)"
		}
		line, err := m.Prompter.ReadLine(label)
		if err != nil {
			if prompt.IsAborted(err) {
				return nil, errCancelled
			}
			return nil, err
		}
		bands = line
	}
	return choice.Args(bands)
}

func (m *Menu) title() string {
	if m.Title == "" {
		return "RF2K-TRAINER"
	}
	return m.Title
}

func (m *Menu) printer() *output.Printer {
	if m.Printer == nil {
		m.Printer = output.NewPrinter(io.Discard, false)
	}
	return m.Printer
}
