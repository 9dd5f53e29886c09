// Package validation checks settings and call arguments.
//
// # Struct Tag Validation
//
// Settings structs carry `validate` tags and are checked in one call; the
// result is an invalid-config error listing every failing field.
//
//	type Settings struct {
//	    MaxFusedSteps int `mapstructure:"max_fused_steps" validate:"gte=0"`
//	}
//	err := validation.Validate(s)
//
// # Argument Validation
//
// Operations that take sizes or counts collect failures and report them as
// one invalid-argument error.
//
//	err := validation.New().
//	    Min("size", size, 1).
//	    Min("step", step, 1).
//	    Err()
package validation
