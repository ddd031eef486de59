package app

import (
	"fmt"

	"github.com/tripcast-io/tripcast/cmd/tripcast-overlay/app/options"
	"github.com/tripcast-io/tripcast/pkg/app"
	"github.com/tripcast-io/tripcast/pkg/log"
)

const (
	commandName = "tripcast-overlay"
	commandDesc = `The tripcast overlay server renders live trip progress for a
stream overlay. It polls or subscribes to a trip telemetry source, keeps the
progress bar state current, and serves the overlay document, an event stream
and operator command endpoints over HTTP.`
)

// NewApp builds the tripcast-overlay application.
func NewApp() *app.App {
	opts := options.NewOverlayServerOptions()
	application := app.NewApp(
		commandName,
		"Launch the tripcast overlay server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.OverlayServerOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)

		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewOverlayServer()
		if err != nil {
			return fmt.Errorf("failed to create overlay server: %w", err)
		}

		return server.Run(ctx)
	}
}
