// Package ratelimit tracks failed attempts per client IP and records
// blocks once a threshold is crossed.
//
// Counters use a fixed window starting at the first failure. Increments
// are read-modify-write on the backing store; concurrent failures from
// the same IP may undercount by a race, which only delays the block by
// an attempt.
package ratelimit

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxAttempts is the failure threshold before an IP is blocked.
	DefaultMaxAttempts = 5
	// DefaultWindow is how long a failure counter lives.
	DefaultWindow = 30 * time.Minute
	// DefaultBlockDuration is how long a recorded block lasts.
	DefaultBlockDuration = 30 * time.Minute

	failedPrefix  = "failed:"
	blockedPrefix = "blocked:"
)

// ErrStorageNil is returned when the limiter is created without a store.
var ErrStorageNil = errors.New("rate limit storage is nil")

// counter is the stored failure counter for one action and IP.
type counter struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"windowStart"`
}

// Limiter records failed attempts and IP blocks in a fiber.Storage backend.
type Limiter struct {
	store         fiber.Storage
	maxAttempts   int
	window        time.Duration
	blockDuration time.Duration
}

// New creates a limiter. Zero values fall back to the package defaults.
func New(store fiber.Storage, maxAttempts int, window, blockDuration time.Duration) (*Limiter, error) {
	if store == nil {
		return nil, ErrStorageNil
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if blockDuration <= 0 {
		blockDuration = DefaultBlockDuration
	}

	return &Limiter{
		store:         store,
		maxAttempts:   maxAttempts,
		window:        window,
		blockDuration: blockDuration,
	}, nil
}

// RecordFailure counts a failed attempt of action from ip and returns
// the count inside the current window. Crossing the threshold records
// a block for the IP.
func (l *Limiter) RecordFailure(action, ip string) (int, error) {
	key := failedPrefix + action + ":" + ip

	var c counter
	if data, err := l.store.Get(key); err != nil {
		return 0, errors.Wrap(err, "reading failure counter")
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &c); err != nil {
			log.Warn().Str("key", key).Msg("discarding malformed failure counter")
			c = counter{}
		}
	}

	now := time.Now()
	if c.Count == 0 || now.Sub(c.WindowStart) > l.window {
		c = counter{WindowStart: now}
	}
	c.Count++

	data, err := json.Marshal(c)
	if err != nil {
		return 0, errors.Wrap(err, "encoding failure counter")
	}
	if err := l.store.Set(key, data, l.window); err != nil {
		return 0, errors.Wrap(err, "storing failure counter")
	}

	if c.Count >= l.maxAttempts {
		if err := l.Block(ip); err != nil {
			return c.Count, err
		}
		log.Warn().Str("ip", ip).Str("action", action).Int("failures", c.Count).
			Msg("ip blocked after repeated failures")
	}

	return c.Count, nil
}

// Reset clears the failure counter of action for ip, typically after a
// successful attempt.
func (l *Limiter) Reset(action, ip string) error {
	if err := l.store.Delete(failedPrefix + action + ":" + ip); err != nil {
		return errors.Wrap(err, "clearing failure counter")
	}

	return nil
}

// Block records a block for ip for the configured duration.
func (l *Limiter) Block(ip string) error {
	if err := l.store.Set(blockedPrefix+ip, []byte("1"), l.blockDuration); err != nil {
		return errors.Wrap(err, "recording ip block")
	}

	return nil
}

// Unblock removes a recorded block for ip.
func (l *Limiter) Unblock(ip string) error {
	if err := l.store.Delete(blockedPrefix + ip); err != nil {
		return errors.Wrap(err, "removing ip block")
	}

	return nil
}

// IsBlocked reports whether ip currently has a recorded block. Storage
// errors degrade to not blocked so a broken store cannot lock everyone out.
func (l *Limiter) IsBlocked(ip string) bool {
	data, err := l.store.Get(blockedPrefix + ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("block lookup failed")
		return false
	}

	return len(data) > 0
}
