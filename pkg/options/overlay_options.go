package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*OverlayOptions)(nil)

// OverlayOptions configures presentation and operator-command behavior.
type OverlayOptions struct {
	// Unit is the distance unit suffix: 'km' or 'mi'.
	Unit string `json:"unit" mapstructure:"unit"`

	// DistanceDecimals is the number of decimal places for distance counters.
	DistanceDecimals int `json:"distance-decimals" mapstructure:"distance-decimals"`

	// FeedbackDuration is how long operator feedback stays visible before
	// the panel reverts to idle.
	FeedbackDuration time.Duration `json:"feedback-duration" mapstructure:"feedback-duration"`

	// ConfirmWindow is how long a danger command waits for its confirming
	// second invocation.
	ConfirmWindow time.Duration `json:"confirm-window" mapstructure:"confirm-window"`

	// ActionTimeout bounds the wait on the action collaborator.
	ActionTimeout time.Duration `json:"action-timeout" mapstructure:"action-timeout"`
}

// NewOverlayOptions creates an OverlayOptions object with default parameters.
func NewOverlayOptions() *OverlayOptions {
	return &OverlayOptions{
		Unit:             "km",
		DistanceDecimals: 1,
		FeedbackDuration: 4 * time.Second,
		ConfirmWindow:    5 * time.Second,
		ActionTimeout:    3 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *OverlayOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Unit != "km" && o.Unit != "mi" {
		errors = append(errors, fmt.Errorf("unknown overlay unit %q (want 'km' or 'mi')", o.Unit))
	}
	if o.DistanceDecimals < 0 || o.DistanceDecimals > 6 {
		errors = append(errors, fmt.Errorf("overlay distance-decimals must be in [0,6], got %d", o.DistanceDecimals))
	}
	if o.FeedbackDuration <= 0 {
		errors = append(errors, fmt.Errorf("overlay feedback-duration must be positive"))
	}
	if o.ConfirmWindow <= 0 {
		errors = append(errors, fmt.Errorf("overlay confirm-window must be positive"))
	}
	if o.ActionTimeout <= 0 {
		errors = append(errors, fmt.Errorf("overlay action-timeout must be positive"))
	}

	return errors
}

// AddFlags adds flags for OverlayOptions to the specified FlagSet.
func (o *OverlayOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Unit, "overlay.unit", o.Unit, "Distance unit for the overlay counters ('km' or 'mi').")
	fs.IntVar(&o.DistanceDecimals, "overlay.distance-decimals", o.DistanceDecimals, "Decimal places for distance counters.")
	fs.DurationVar(&o.FeedbackDuration, "overlay.feedback-duration", o.FeedbackDuration, "How long operator feedback stays visible.")
	fs.DurationVar(&o.ConfirmWindow, "overlay.confirm-window", o.ConfirmWindow, "Window for confirming a danger command.")
	fs.DurationVar(&o.ActionTimeout, "overlay.action-timeout", o.ActionTimeout, "Timeout for the action collaborator.")
}
