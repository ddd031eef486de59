package options

import (
	"errors"

	"github.com/tripcast-io/tripcast/internal/overlay"
	"github.com/tripcast-io/tripcast/pkg/app"
	"github.com/tripcast-io/tripcast/pkg/log"
	"github.com/tripcast-io/tripcast/pkg/options"
)

// OverlayServerOptions is the full option set of the tripcast-overlay binary.
type OverlayServerOptions struct {
	HttpOptions    *options.HttpOptions    `json:"http" mapstructure:"http"`
	MqttOptions    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	SourceOptions  *options.SourceOptions  `json:"source" mapstructure:"source"`
	OverlayOptions *options.OverlayOptions `json:"overlay" mapstructure:"overlay"`
	Log            *log.Options            `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*OverlayServerOptions)(nil)

func NewOverlayServerOptions() *OverlayServerOptions {
	return &OverlayServerOptions{
		HttpOptions:    options.NewHttpOptions(),
		MqttOptions:    options.NewMqttOptions(),
		SourceOptions:  options.NewSourceOptions(),
		OverlayOptions: options.NewOverlayOptions(),
		Log:            log.NewOptions(),
	}
}

func (o *OverlayServerOptions) Flags() app.NamedFlagSets {
	fss := app.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.SourceOptions.AddFlags(fss.FlagSet("source"))
	o.OverlayOptions.AddFlags(fss.FlagSet("overlay"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *OverlayServerOptions) Complete() error {
	return nil
}

func (o *OverlayServerOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.SourceOptions.Validate()...)
	errs = append(errs, o.OverlayOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

func (o *OverlayServerOptions) Config() (*overlay.Config, error) {
	return &overlay.Config{
		HttpOptions:    o.HttpOptions,
		MqttOptions:    o.MqttOptions,
		SourceOptions:  o.SourceOptions,
		OverlayOptions: o.OverlayOptions,
	}, nil
}
