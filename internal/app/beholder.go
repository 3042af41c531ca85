// Package app hosts the Beholder controller: the run loop that turns
// sentinel failover notifications into proxy configuration rewrites.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"beholder/internal/sentinel"
	"beholder/internal/shared/logger"
	"beholder/internal/shared/types"
	"beholder/internal/twemproxy"
)

// State is the controller's lifecycle phase, logged on every transition.
type State int

const (
	StateStarting State = iota
	StateConnecting
	StateListening
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateConnecting:
		return "connecting"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// pollPause is the yield between polls so an idle subscription does not
// busy-spin.
const pollPause = time.Millisecond

type link interface {
	Connect(ctx context.Context) bool
	NextMessage(ctx context.Context) (string, bool)
	Close()
}

type reconciler interface {
	Apply(oldHost, oldPort, newHost, newPort string) (twemproxy.Result, error)
}

type reloader interface {
	Fire() int
}

// Beholder owns the cancellation flag and the sentinel link for its whole
// lifetime. Everything runs on one goroutine; the signal handler only
// raises the flag.
type Beholder struct {
	stop   *sentinel.Flag
	link   link
	recon  reconciler
	reload reloader
	pause  time.Duration

	state State
	log   zerolog.Logger
}

// New wires a Beholder from the daemon configuration.
func New(cfg *types.Config) *Beholder {
	stop := sentinel.NewFlag()
	return &Beholder{
		stop:   stop,
		link:   sentinel.NewLink(cfg.SentinelAddr(), cfg.ConnectRetryCount, cfg.RetryInterval(), stop),
		recon:  twemproxy.NewReconciler(cfg.ConfigFile),
		reload: twemproxy.NewReload(cfg.RestartCommand),
		pause:  pollPause,
		state:  StateStarting,
		log:    logger.WithComponent("beholder"),
	}
}

// Stop requests a graceful shutdown. The loop drains its current iteration
// before exiting, so an in-flight rewrite or reload always completes.
func (b *Beholder) Stop() {
	b.stop.Set()
}

// Run drives the controller through its lifecycle. It returns after the
// subscription is released, whether the loop ended by cancellation or by
// exhausting the connection retries.
func (b *Beholder) Run(ctx context.Context) error {
	b.watchSignals()
	defer b.link.Close()

	b.setState(StateConnecting)
	if b.link.Connect(ctx) {
		b.setState(StateListening)
		b.listen(ctx)
	}

	b.setState(StateStopping)
	b.link.Close()
	b.setState(StateStopped)
	b.log.Info().Msg("beholder stopped")
	return nil
}

func (b *Beholder) watchSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-ch
		// Only the flag is written from here; all state transitions happen
		// inside the run loop.
		b.log.Info().Str("signal", sig.String()).Msg("termination signal received")
		b.stop.Set()
	}()
}

func (b *Beholder) listen(ctx context.Context) {
	for !b.stop.IsSet() {
		if payload, ok := b.link.NextMessage(ctx); ok {
			b.handle(payload)
		}
		time.Sleep(b.pause)
	}
}

// handle processes one failover notification end to end. Every failure mode
// here is per-event: it is logged and the loop keeps listening.
func (b *Beholder) handle(payload string) {
	event, err := sentinel.ParseSwitchMaster(payload)
	if err != nil {
		b.log.Warn().Err(err).Msg("dropping malformed switch-master payload")
		return
	}

	res, err := b.recon.Apply(event.OldHost, event.OldPort, event.NewHost, event.NewPort)
	if err != nil {
		b.log.Error().Err(err).Str("master", event.MasterName).Msg("reconciliation failed")
		return
	}
	if !res.Changed {
		b.log.Error().Str("master", event.MasterName).Msgf(
			"master update error (%s:%s --> %s:%s)",
			event.OldHost, event.OldPort, event.NewHost, event.NewPort)
		return
	}

	status := b.reload.Fire()
	b.log.Info().
		Str("master", event.MasterName).
		Int("entries", len(res.Updated)).
		Int("reload_status", status).
		Msg("master changed successfully")
}

func (b *Beholder) setState(s State) {
	b.state = s
	b.log.Debug().Str("state", s.String()).Msg("state transition")
}
