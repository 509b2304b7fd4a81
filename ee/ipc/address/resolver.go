package address

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kolide/localipc/pkg/log/multislogger"
	"golang.org/x/sync/singleflight"
)

// Resolver computes addresses with a fixed strategy and remembers them for
// its lifetime. The username is assumed not to change while the process runs,
// so a cached address is never recomputed.
type Resolver struct {
	slogger  *slog.Logger
	strategy Strategy
	flights  singleflight.Group
	lock     sync.RWMutex
	cache    map[string]Address
}

type ResolverOption func(*Resolver)

// WithStrategy overrides the platform default strategy.
func WithStrategy(s Strategy) ResolverOption {
	return func(r *Resolver) {
		r.strategy = s
	}
}

func NewResolver(slogger *slog.Logger, opts ...ResolverOption) *Resolver {
	if slogger == nil {
		slogger = multislogger.NewNopLogger()
	}

	r := &Resolver{
		cache: make(map[string]Address),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.strategy == nil {
		r.strategy = DefaultStrategy()
	}
	r.slogger = slogger.With("component", "ipc_address_resolver", "strategy", r.strategy.Name())

	return r
}

func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// Resolve returns the address for channel. The first call for a channel
// computes it; every later call returns the same Address value. Concurrent
// first calls share a single computation.
func (r *Resolver) Resolve(channel string) Address {
	if addr, ok := r.cached(channel); ok {
		return addr
	}

	v, _, _ := r.flights.Do(channel, func() (any, error) {
		// A flight that finished just before this one started has already
		// stored its result.
		if addr, ok := r.cached(channel); ok {
			return addr, nil
		}

		addr := r.strategy.Address(channel)

		r.lock.Lock()
		defer r.lock.Unlock()
		if existing, ok := r.cache[channel]; ok {
			return existing, nil
		}
		r.cache[channel] = addr

		r.slogger.Log(context.TODO(), slog.LevelDebug,
			"resolved ipc address",
			"channel", channel,
			"address", addr.String(),
		)

		return addr, nil
	})

	return v.(Address)
}

// GUIAddress is the address of the main application window's channel.
func (r *Resolver) GUIAddress() Address {
	return r.Resolve(r.strategy.Channels().GUI)
}

// ViewerAddress is the address of the standalone viewer's channel.
func (r *Resolver) ViewerAddress() Address {
	return r.Resolve(r.strategy.Channels().Viewer)
}

func (r *Resolver) cached(channel string) (Address, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	addr, ok := r.cache[channel]
	return addr, ok
}
