package settings

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the document's structure: required sections, value
// ranges and known radio types.
func Validate(doc *Document) error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if b := doc.Radio.Backend(); b != RadioFlex && b != RadioRigctl {
		return fmt.Errorf("invalid settings: radio.type %q is not one of %s, %s", doc.Radio.Type, RadioFlex, RadioRigctl)
	}
	if doc.Amplifier.Enabled && doc.Amplifier.Host == "" {
		return fmt.Errorf("invalid settings: rf2k_s.host is required when rf2k_s.enabled is true")
	}
	for name, b := range doc.Bands {
		if b.BandStart != 0 && b.BandEnd != 0 && b.BandEnd <= b.BandStart {
			return fmt.Errorf("invalid settings: band %s: band_end (%g) must be above band_start (%g)", name, b.BandEnd, b.BandStart)
		}
	}
	return nil
}

// Warnings returns non-fatal observations the engine would trip over.
func Warnings(doc *Document) []string {
	var warnings []string

	rigctl := doc.Radio.Backend() == RadioRigctl
	if rigctl && doc.Radio.HamlibModel() == 0 {
		warnings = append(warnings, "radio.rigctld_model is required for rigctl backends (see 'rigctl -l')")
	}
	if rigctl && doc.Radio.AutoStartRigctld && doc.Radio.Serial() == "" {
		warnings = append(warnings, "radio.serial_port is required when auto_start_rigctld is true")
	}
	if !doc.Amplifier.Enabled {
		warnings = append(warnings, "rf2k_s.enabled is false; amplifier operations will be skipped")
	}
	if len(doc.EnabledBands()) == 0 {
		warnings = append(warnings, "no bands are enabled; a full run will have nothing to tune")
	}

	sort.Strings(warnings)
	return warnings
}
