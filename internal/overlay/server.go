// Package overlay assembles and runs the tripcast overlay service: the
// update loop that keeps the progress bar current, the operator control
// panel, and the HTTP API serving the browser overlay.
package overlay

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripcast-io/tripcast/internal/overlay/httpapi"
	"github.com/tripcast-io/tripcast/internal/overlay/loop"
	"github.com/tripcast-io/tripcast/internal/overlay/source"
	"github.com/tripcast-io/tripcast/pkg/log"
)

// OverlayServer hosts the overlay's long-running components.
type OverlayServer struct {
	httpserver *httpapi.Server
	updateloop *loop.Loop

	// mqttsource is non-nil only in mqtt mode.
	mqttsource *source.MQTTSource
	streamID   string
}

// Run starts all components and blocks until ctx is cancelled or one of them
// fails. A single component failure tears the whole service down.
func (s *OverlayServer) Run(ctx context.Context) error {
	log.Info("Starting tripcast overlay server", "stream", s.streamID)

	if s.mqttsource != nil {
		if err := s.mqttsource.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.mqttsource.Stop(stopCtx)
		}()

		s.mqttsource.AnnounceOnline(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.httpserver.Start(gctx)
	})

	g.Go(func() error {
		return s.updateloop.Run(gctx)
	})

	err := g.Wait()
	log.Info("Tripcast overlay server stopped")
	return err
}
