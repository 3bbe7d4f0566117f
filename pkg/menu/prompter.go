package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tnxqso/rf2k-launcher/internal/cli/prompt"
)

// Prompter reads user input for the menu and its follow-up questions.
type Prompter interface {
	// ReadChoice shows the options and returns the raw key entered.
	ReadChoice(title string, options []Choice) (string, error)

	// ReadLine asks for free text.
	ReadLine(label string) (string, error)

	Confirm(label string, defaultYes bool) (bool, error)
	Acknowledge(label string) error
}

// InteractivePrompter uses arrow-key terminal prompts.
type InteractivePrompter struct{}

func (InteractivePrompter) ReadChoice(title string, options []Choice) (string, error) {
	items := make([]prompt.SelectOption, 0, len(options))
	for _, c := range options {
		items = append(items, prompt.SelectOption{
			Label: fmt.Sprintf("%s) %s", c.Key(), c.Label()),
			Value: c.Key(),
		})
	}
	return prompt.Select(title, items)
}

func (InteractivePrompter) ReadLine(label string) (string, error) {
	return prompt.Input(label, "")
}

func (InteractivePrompter) Confirm(label string, defaultYes bool) (bool, error) {
	return prompt.Confirm(label, defaultYes)
}

func (InteractivePrompter) Acknowledge(label string) error {
	return prompt.Acknowledge(label)
}

// LinePrompter reads plain lines. It is used with --plain and when stdin is
// not a terminal.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a LinePrompter reading r and writing to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

func (p *LinePrompter) ReadChoice(title string, options []Choice) (string, error) {
	_, _ = fmt.Fprintf(p.out, "\n%s\n", title)
	for _, c := range options {
		_, _ = fmt.Fprintf(p.out, "  %s) %s\n", c.Key(), c.Label())
	}
	return p.ReadLine("Select")
}

func (p *LinePrompter) ReadLine(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) Confirm(label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	answer, err := p.ReadLine(fmt.Sprintf("%s [%s]", label, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *LinePrompter) Acknowledge(label string) error {
	if label == "" {
		label = "Press Enter to continue"
	}
	_, err := p.ReadLine(label)
	if err == io.EOF {
		return nil
	}
	return err
}
