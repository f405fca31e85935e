// Package config builds the Config every other package in this client
// reads from, using the functional-options pattern (see
// pkg/acl.ManagerOption in the example pack) plus optional TOML loading.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	omegaerrors "github.com/fund3/omega-client/errors"
	"github.com/fund3/omega-client/logging"
)

const (
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultRefreshSafetyFrac = 0.75
	DefaultOutboundQueueSize = 0 // unbounded
	DefaultHeartbeatInterval = 30 * time.Second
)

// Config collects everything a Connection needs to reach one Omega
// endpoint: transport addressing, CURVE keys, session identity, and the
// ambient logger/queue-policy knobs.
type Config struct {
	Endpoint string
	// ServerPublicKey is the CURVE server public key, z85-encoded. Optional:
	// when empty the transport dials with NullSecurity (unauthenticated).
	ServerPublicKey string
	ClientID        int64
	SenderCompID    string
	ClientSecret    string

	PollInterval      time.Duration
	RefreshSafetyFrac float64 // fraction of ExpiresIn at which to refresh, e.g. 0.75
	HeartbeatInterval time.Duration

	// OutboundQueueBound, if > 0, makes the outbound queue bounded at that
	// many messages (Send blocks when full). Zero means unbounded.
	OutboundQueueBound int

	Logger logging.Logger
}

// Option configures a Config during New.
type Option func(*Config)

func WithEndpoint(endpoint string) Option {
	return func(c *Config) { c.Endpoint = endpoint }
}

func WithServerPublicKey(key string) Option {
	return func(c *Config) { c.ServerPublicKey = key }
}

func WithIdentity(clientID int64, senderCompID, clientSecret string) Option {
	return func(c *Config) {
		c.ClientID = clientID
		c.SenderCompID = senderCompID
		c.ClientSecret = clientSecret
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

func WithRefreshSafetyFraction(f float64) Option {
	return func(c *Config) { c.RefreshSafetyFrac = f }
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Config) { c.HeartbeatInterval = d }
}

func WithOutboundQueueBound(n int) Option {
	return func(c *Config) { c.OutboundQueueBound = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// New builds a Config from defaults plus opts, then validates it.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		PollInterval:       DefaultPollInterval,
		RefreshSafetyFrac:  DefaultRefreshSafetyFrac,
		HeartbeatInterval:  DefaultHeartbeatInterval,
		OutboundQueueBound: DefaultOutboundQueueSize,
		Logger:             logging.NewZerolog(zerolog.New(os.Stderr).With().Timestamp().Logger(), logging.LogLevelInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return &omegaerrors.ConfigError{Reason: "endpoint is required"}
	}
	if c.SenderCompID == "" {
		return &omegaerrors.ConfigError{Reason: "sender comp id is required"}
	}
	if c.RefreshSafetyFrac <= 0 || c.RefreshSafetyFrac >= 1 {
		return &omegaerrors.ConfigError{Reason: "refresh safety fraction must be in (0, 1)"}
	}
	return nil
}

// fileConfig mirrors Config's fields for TOML unmarshaling; durations and
// the logger are handled separately since they aren't plain TOML scalars.
type fileConfig struct {
	Endpoint           string  `toml:"endpoint"`
	ServerPublicKey    string  `toml:"server_public_key"`
	ClientID           int64   `toml:"client_id"`
	SenderCompID       string  `toml:"sender_comp_id"`
	ClientSecret       string  `toml:"client_secret"`
	PollIntervalMS     int64   `toml:"poll_interval_ms"`
	RefreshSafetyFrac  float64 `toml:"refresh_safety_fraction"`
	HeartbeatIntervalS int64   `toml:"heartbeat_interval_seconds"`
	OutboundQueueBound int     `toml:"outbound_queue_bound"`
}

// FromTOML loads a Config from a TOML file, then applies any additional
// opts (e.g. WithLogger, since a Logger cannot be expressed in TOML) on top.
func FromTOML(path string, opts ...Option) (*Config, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, &omegaerrors.ConfigError{Reason: "failed to decode " + path, Cause: err}
	}

	base := []Option{
		WithEndpoint(fc.Endpoint),
		WithServerPublicKey(fc.ServerPublicKey),
		WithIdentity(fc.ClientID, fc.SenderCompID, fc.ClientSecret),
	}
	if fc.PollIntervalMS > 0 {
		base = append(base, WithPollInterval(time.Duration(fc.PollIntervalMS)*time.Millisecond))
	}
	if fc.RefreshSafetyFrac > 0 {
		base = append(base, WithRefreshSafetyFraction(fc.RefreshSafetyFrac))
	}
	if fc.HeartbeatIntervalS > 0 {
		base = append(base, WithHeartbeatInterval(time.Duration(fc.HeartbeatIntervalS)*time.Second))
	}
	if fc.OutboundQueueBound != 0 {
		base = append(base, WithOutboundQueueBound(fc.OutboundQueueBound))
	}

	return New(append(base, opts...)...)
}
