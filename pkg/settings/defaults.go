package settings

import (
	_ "embed"
	"fmt"
)

// DefaultDocument is the built-in settings.yml written when no template is
// shipped next to the launcher. Its bytes are stable across runs.
//
//go:embed defaults/settings.yml
var DefaultDocument []byte

// Default returns the parsed built-in settings document.
func Default() *Document {
	doc, err := Parse(DefaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded settings document is invalid: %v", err))
	}
	return doc
}
