// Package worker implements the delayed-trigger consumer (spec §4.6,
// §6 "Delayed trigger payload"): it receives a queued record carrying
// {detail: {session_id}} at least sessionReconnectGrace after a
// Websocket/Disconnected event and invokes CheckSessionTimeout. Grounded on
// the teacher's internal/game/service.go StartCleanupWorker — same
// cancelable-goroutine-plus-WaitGroup shape — repurposed from a ticker
// sweep to a channel consumer, since this worker is driven by delayed
// trigger deliveries, not a periodic scan.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"diceparty/internal/command"
	"diceparty/internal/events"
)

// Trigger is one delayed-trigger delivery: the event bus's {source,
// detail_type, detail} envelope, re-delivered after the grace window.
type Trigger struct {
	Source     string
	DetailType string
	Detail     json.RawMessage
}

type sessionDetail struct {
	SessionID string `json:"session_id"`
}

// Worker consumes Triggers from a channel and invokes CheckSessionTimeout
// for each Websocket/Disconnected trigger.
type Worker struct {
	svc    *command.Service
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Worker bound to svc.
func New(svc *command.Service) *Worker {
	return &Worker{svc: svc, logger: slog.Default().With("component", "timeout-worker")}
}

// Start consumes triggers until ctx is cancelled or triggers is closed.
func (w *Worker) Start(ctx context.Context, triggers <-chan Trigger) {
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("timeout worker started")
		for {
			select {
			case <-runCtx.Done():
				w.logger.Info("timeout worker stopped")
				return
			case trigger, ok := <-triggers:
				if !ok {
					w.logger.Info("timeout worker stopped: trigger channel closed")
					return
				}
				w.handle(runCtx, trigger)
			}
		}
	}()
}

// Stop cancels the consumer loop and waits for it to exit.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.wg.Wait()
	}
}

func (w *Worker) handle(ctx context.Context, trigger Trigger) {
	if !strings.HasSuffix(trigger.Source, "."+events.SourceWebsocket) || trigger.DetailType != events.DetailTypeDisconnected {
		return
	}

	var detail sessionDetail
	if err := json.Unmarshal(trigger.Detail, &detail); err != nil {
		w.logger.Error("malformed delayed trigger payload", "error", fmt.Errorf("worker: decode trigger: %w", err))
		return
	}

	result, err := w.svc.CheckSessionTimeout(ctx, command.CheckSessionTimeoutCommand{SessionID: detail.SessionID})
	if err != nil {
		w.logger.Error("check session timeout failed", "sessionId", detail.SessionID, "error", err)
		return
	}
	w.logger.Debug("check session timeout", "sessionId", detail.SessionID, "result", result)
}
