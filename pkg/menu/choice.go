package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Choice is a menu selection.
type Choice int

const (
	ChoiceRunAll Choice = iota + 1
	ChoiceShowInfo
	ChoiceRunSubset
	ChoiceDebug
	ChoiceClearLogs
	ChoiceCheckUpdates
	ChoiceExit
)

// Engine flags forwarded for menu choices.
const (
	FlagInfo         = "--info"
	FlagDebug        = "--debug"
	FlagClearLogs    = "--clear-logs"
	FlagCheckUpdates = "--check-updates"
)

// ErrNoBands is returned when a band subset run is requested without bands.
var ErrNoBands = errors.New("no band identifiers given")

type choiceInfo struct {
	key   string
	name  string
	label string
}

var choices = map[Choice]choiceInfo{
	ChoiceRunAll:       {key: "1", name: "run-all", label: "Run all enabled bands"},
	ChoiceShowInfo:     {key: "2", name: "show-info", label: "Show band and settings info"},
	ChoiceRunSubset:    {key: "3", name: "run-subset", label: "Run selected bands"},
	ChoiceDebug:        {key: "4", name: "debug", label: "Debug run"},
	ChoiceClearLogs:    {key: "5", name: "clear-logs", label: "Clear logs"},
	ChoiceCheckUpdates: {key: "6", name: "check-updates", label: "Check for updates"},
	ChoiceExit:         {key: "0", name: "exit", label: "Exit"},
}

// Key returns the menu key typed to select c.
func (c Choice) Key() string { return choices[c].key }

// Label returns the menu text for c.
func (c Choice) Label() string { return choices[c].label }

func (c Choice) String() string {
	if info, ok := choices[c]; ok {
		return info.name
	}
	return fmt.Sprintf("choice(%d)", int(c))
}

// Options returns the menu entries in display order.
func Options(updatesSupported bool) []Choice {
	opts := []Choice{ChoiceRunAll, ChoiceShowInfo, ChoiceRunSubset, ChoiceDebug, ChoiceClearLogs}
	if updatesSupported {
		opts = append(opts, ChoiceCheckUpdates)
	}
	return append(opts, ChoiceExit)
}

// ParseChoice maps a typed menu key to a Choice. Check-updates is only
// recognized when updatesSupported is true.
func ParseChoice(key string, updatesSupported bool) (Choice, bool) {
	key = strings.TrimSpace(key)
	for _, c := range Options(updatesSupported) {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}

// ParseName maps a choice name ("run-subset") to a Choice.
func ParseName(name string, updatesSupported bool) (Choice, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Options(updatesSupported) {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Names returns the choice names accepted by ParseName.
func Names(updatesSupported bool) []string {
	opts := Options(updatesSupported)
	names := make([]string, 0, len(opts))
	for _, c := range opts {
		names = append(names, c.String())
	}
	return names
}

// NeedsBands reports whether the choice asks for band identifiers.
func (c Choice) NeedsBands() bool {
	return c == ChoiceRunSubset || c == ChoiceDebug
}

// Args returns the engine arguments for c. bands is split on whitespace and
// forwarded unchanged; it is required for a subset run and optional for a
// debug run.
func (c Choice) Args(bands string) ([]string, error) {
	ids := strings.Fields(bands)

	switch c {
	case ChoiceRunAll:
		return []string{}, nil
	case ChoiceShowInfo:
		return []string{FlagInfo}, nil
	case ChoiceRunSubset:
		if len(ids) == 0 {
			return nil, ErrNoBands
		}
		return ids, nil
	case ChoiceDebug:
		return append([]string{FlagDebug}, ids...), nil
	case ChoiceClearLogs:
		return []string{FlagClearLogs}, nil
	case ChoiceCheckUpdates:
		return []string{FlagCheckUpdates}, nil
	default:
		return nil, fmt.Errorf("%s does not run the engine", c)
	}
}
