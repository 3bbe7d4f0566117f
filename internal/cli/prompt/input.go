package prompt

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input prompts for text input. The label is shown as given.
func Input(label string, defaultValue string) (string, error) {
	p := inputPrompt(label, defaultValue)
	result, err := p.Run()
	return result, wrapError(err)
}

func inputPrompt(label, defaultValue string) promptui.Prompt {
	return promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
}
