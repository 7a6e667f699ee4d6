// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/logging"
)

// Setup describes a resolver stack: the offline table and, when Live, the
// Photon and Nominatim providers behind circuit breakers and one queue.
type Setup struct {
	TableSource  string
	Live         bool
	PhotonURL    string
	NominatimURL string
	UserAgent    string
	MinInterval  time.Duration
	CallTimeout  time.Duration
	Breaker      BreakerSettings
	Client       *http.Client
}

// Stack is a built resolver and the queue it owns.
type Stack struct {
	Normalizer *geo.Normalizer
	Table      *Table
	Resolver   *Resolver
	queue      *Queue
}

// Build assembles the stack. A table that cannot be loaded is logged and
// replaced by an empty one so live lookups still work.
func Build(ctx context.Context, n *geo.Normalizer, s Setup) *Stack {
	if n == nil {
		n = geo.NewNormalizer()
	}
	if s.Breaker == (BreakerSettings{}) {
		s.Breaker = DefaultBreakerSettings()
	}

	table, err := LoadTable(ctx, n, s.TableSource, s.Client)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Resolution table unavailable, continuing without it")
		table = EmptyTable()
	} else if s.TableSource != "" {
		logging.Ctx(ctx).Info().Int("rows", table.Len()).Str("source", s.TableSource).Msg("Resolution table loaded")
	}

	stack := &Stack{Normalizer: n, Table: table}
	opts := Options{Normalizer: n, Table: table, Live: s.Live}
	if s.Live {
		stack.queue = NewQueue(s.MinInterval, s.CallTimeout)
		opts.Queue = stack.queue
		opts.Primary = WithBreaker(NewPhotonProvider(n, s.Client, s.PhotonURL, s.UserAgent), s.Breaker)
		opts.Secondary = WithBreaker(NewNominatimProvider(n, s.Client, s.NominatimURL, s.UserAgent), s.Breaker)
	}
	stack.Resolver = NewResolver(opts)
	return stack
}

// Close stops the geocode queue.
func (s *Stack) Close() {
	if s.queue != nil {
		s.queue.Close()
	}
}
