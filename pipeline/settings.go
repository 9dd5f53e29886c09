package pipeline

import (
	"sync/atomic"

	"github.com/kbukum/seqkit/validation"
)

// Settings controls how chains are realized.
type Settings struct {
	// DisableFusion runs every step stage as its own nested iterator.
	DisableFusion bool `yaml:"disable_fusion" mapstructure:"disable_fusion" json:"disable_fusion"`
	// MaxFusedSteps caps the number of steps in one fused segment. 0 means no cap.
	MaxFusedSteps int `yaml:"max_fused_steps" mapstructure:"max_fused_steps" json:"max_fused_steps" validate:"gte=0"`
}

// Validate validates pipeline settings.
func (s *Settings) Validate() error {
	return validation.Validate(s)
}

func (s *Settings) segmentLimit() int {
	if s.DisableFusion {
		return 1
	}
	return s.MaxFusedSteps
}

var settings atomic.Pointer[Settings]

func init() {
	settings.Store(&Settings{})
}

// Configure replaces the settings used by chains realized afterwards.
func Configure(s Settings) {
	settings.Store(&s)
}

// CurrentSettings returns the active settings.
func CurrentSettings() Settings {
	return *current()
}

func current() *Settings {
	return settings.Load()
}
