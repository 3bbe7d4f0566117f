package prompt

import (
	"github.com/manifoldco/promptui"
)

// SelectOption represents an item in a selection list.
type SelectOption struct {
	Label       string
	Value       string
	Description string
}

func selectTemplates(withDetails bool) *promptui.SelectTemplates {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label | white }}",
		Selected: "* {{ .Label | green }}",
	}
	if withDetails {
		templates.Details = `
{{ "Description:" | faint }}	{{ .Description }}`
	}
	return templates
}

// Select prompts the user to select from a list of options.
// Returns the selected option's value.
func Select(label string, options []SelectOption) (string, error) {
	prompt := promptui.Select{
		Label:        label,
		Items:        options,
		Templates:    selectTemplates(len(options) > 0 && options[0].Description != ""),
		Size:         len(options),
		HideSelected: true,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return options[i].Value, nil
}
