package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SourceOptions)(nil)

// Supported data source modes.
const (
	SourceModeHTTP = "http"
	SourceModeMQTT = "mqtt"
)

// SourceOptions configures how the overlay obtains trip telemetry.
type SourceOptions struct {
	// Mode selects the data source collaborator: 'http' (polling) or 'mqtt' (push).
	Mode string `json:"mode" mapstructure:"mode"`

	// Endpoint is the metrics URL of the HTTP data source.
	// Ignored in mqtt mode.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// StreamID identifies this stream's telemetry feed within the topic namespace.
	StreamID string `json:"stream-id" mapstructure:"stream-id"`

	// PollInterval is the fixed interval between fetch->render cycles.
	PollInterval time.Duration `json:"poll-interval" mapstructure:"poll-interval"`

	// FetchTimeout bounds a single fetch from the data source.
	FetchTimeout time.Duration `json:"fetch-timeout" mapstructure:"fetch-timeout"`
}

// NewSourceOptions creates a SourceOptions object with default parameters.
func NewSourceOptions() *SourceOptions {
	return &SourceOptions{
		Mode:         SourceModeHTTP,
		Endpoint:     "http://localhost:9800/api/v1/trip/metrics",
		StreamID:     "default",
		PollInterval: 2 * time.Second,
		FetchTimeout: 3 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *SourceOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Mode {
	case SourceModeHTTP:
		if _, err := url.ParseRequestURI(o.Endpoint); err != nil {
			errors = append(errors, fmt.Errorf("invalid source endpoint %q: %w", o.Endpoint, err))
		}
	case SourceModeMQTT:
		// Broker settings are validated by MqttOptions.
	default:
		errors = append(errors, fmt.Errorf("unknown source mode %q (want %q or %q)", o.Mode, SourceModeHTTP, SourceModeMQTT))
	}

	if o.StreamID == "" {
		errors = append(errors, fmt.Errorf("source stream-id must not be empty"))
	}
	if o.PollInterval <= 0 {
		errors = append(errors, fmt.Errorf("source poll-interval must be positive"))
	}
	if o.FetchTimeout <= 0 {
		errors = append(errors, fmt.Errorf("source fetch-timeout must be positive"))
	}

	return errors
}

// AddFlags adds flags for SourceOptions to the specified FlagSet.
func (o *SourceOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Mode, "source.mode", o.Mode, "Data source mode: 'http' (polling) or 'mqtt' (push).")
	fs.StringVar(&o.Endpoint, "source.endpoint", o.Endpoint, "Metrics URL of the HTTP data source.")
	fs.StringVar(&o.StreamID, "source.stream-id", o.StreamID, "Identifier of this stream's telemetry feed.")
	fs.DurationVar(&o.PollInterval, "source.poll-interval", o.PollInterval, "Interval between overlay update cycles.")
	fs.DurationVar(&o.FetchTimeout, "source.fetch-timeout", o.FetchTimeout, "Timeout for a single telemetry fetch.")
}
