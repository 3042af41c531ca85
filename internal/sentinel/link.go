// Package sentinel maintains the subscription to the Redis Sentinel
// +switch-master channel and decodes the failover notifications published
// on it.
package sentinel

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"beholder/internal/shared/logger"
)

// pollTimeout keeps NextMessage close to a non-blocking poll while still
// letting go-redis notice dead connections.
const pollTimeout = 100 * time.Millisecond

// Link owns the connection to the sentinel pub/sub endpoint and the
// +switch-master subscription. It is driven from a single goroutine; only
// Close is safe to call from elsewhere.
type Link struct {
	addr  string
	retry RetryState
	stop  *Flag
	log   zerolog.Logger

	client *redis.Client
	pubsub *redis.PubSub

	closeOnce sync.Once
}

func NewLink(addr string, retryLimit int, retryInterval time.Duration, stop *Flag) *Link {
	return &Link{
		addr: addr,
		retry: RetryState{
			Limit:    retryLimit,
			Interval: retryInterval,
		},
		stop: stop,
		log:  logger.WithComponent("sentinel"),
	}
}

// Connect dials the sentinel and subscribes to +switch-master, retrying
// failed attempts under the configured retry policy. Exhausting the retries
// is fatal for the daemon: the shared stop flag is raised and false is
// returned. Connect also returns false when the flag is raised externally
// during backoff.
func (l *Link) Connect(ctx context.Context) bool {
	state := l.retry
	for !l.stop.IsSet() {
		err := l.subscribe(ctx)
		if err == nil {
			l.log.Info().
				Str("addr", l.addr).
				Str("channel", SwitchMasterChannel).
				Msg("subscribed to sentinel")
			return true
		}

		l.log.Error().Err(err).Int("attempt", state.Attempts).Msg("sentinel connection error")

		next, ok := state.Next()
		if !ok {
			l.log.Error().Int("attempts", state.Attempts).Msg("max connection retries exceeded")
			l.stop.Set()
			return false
		}
		state = next
		time.Sleep(state.Interval)
	}
	return false
}

func (l *Link) subscribe(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{Addr: l.addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	pubsub := client.Subscribe(ctx, SwitchMasterChannel)
	// Wait for the subscription ack so a refused subscribe surfaces here
	// instead of on the first poll.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		_ = client.Close()
		return err
	}
	l.client = client
	l.pubsub = pubsub
	return nil
}

// NextMessage polls the subscription for the next channel message. It
// returns ok=false when nothing is pending within the poll timeout, and
// silently discards non-message frames (subscription acks, pongs).
func (l *Link) NextMessage(ctx context.Context) (string, bool) {
	raw, err := l.pubsub.ReceiveTimeout(ctx, pollTimeout)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", false
		}
		// go-redis re-dials under the covers; surface the hiccup at debug
		// and let the next poll try again.
		l.log.Debug().Err(err).Msg("sentinel receive failed")
		return "", false
	}
	msg, ok := raw.(*redis.Message)
	if !ok {
		return "", false
	}
	return msg.Payload, true
}

// Close releases the subscription and the underlying connection. It is
// idempotent and safe on a link that never connected.
func (l *Link) Close() {
	l.closeOnce.Do(func() {
		if l.pubsub != nil {
			_ = l.pubsub.Close()
		}
		if l.client != nil {
			_ = l.client.Close()
		}
	})
}
