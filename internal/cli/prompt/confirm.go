// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user for yes/no confirmation.
// Empty input selects the default. Returns ErrAborted on Ctrl+C.
func Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrAborted
		}
		// promptui reports "n" and an empty answer as ErrAbort.
		if errors.Is(err, promptui.ErrAbort) {
			if strings.TrimSpace(result) == "" {
				return defaultYes, nil
			}
			return false, nil
		}
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(result))
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}

// Acknowledge blocks until the user presses Enter.
func Acknowledge(label string) error {
	if label == "" {
		label = "Press Enter to continue"
	}
	prompt := promptui.Prompt{
		Label: label,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . | faint }} ",
			Valid:   "{{ . | faint }} ",
			Success: "",
		},
	}
	_, err := prompt.Run()
	return wrapError(err)
}
