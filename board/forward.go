package board

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"taskflow/domain"
)

const forwardTimeout = 10 * time.Second

// EventSink receives board events leaving the process.
type EventSink interface {
	PublishEvent(ctx context.Context, ev domain.BoardEvent) error
}

// Forward drains events into every sink until the channel is closed or ctx is
// done. Sink failures are logged and never reach the board.
func Forward(ctx context.Context, events <-chan domain.BoardEvent, logger *log.Logger, sinks ...EventSink) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			for _, sink := range sinks {
				sctx, cancel := context.WithTimeout(ctx, forwardTimeout)
				err := sink.PublishEvent(sctx, ev)
				cancel()
				if err != nil {
					logger.WithError(err).WithFields(log.Fields{
						"event": ev.ID,
						"type":  ev.Type,
						"task":  ev.TaskID,
					}).Error("forward board event failed")
				}
			}
		}
	}
}
