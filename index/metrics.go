// Copyright (c) 2019 Perlin
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package index

import (
	"context"
	"time"

	"github.com/nisha7908/sui/log"
	"github.com/rcrowley/go-metrics"
)

type Metrics struct {
	registry metrics.Registry

	storedTX      metrics.Meter
	storedObjects metrics.Meter
	sealed        metrics.Meter
	fetched       metrics.Meter
	pruned        metrics.Meter

	lookupLatency metrics.Timer
	sealLatency   metrics.Timer
}

func NewMetrics(ctx context.Context) *Metrics {
	registry := metrics.NewRegistry()

	storedTX := metrics.NewRegisteredMeter("tx.stored", registry)
	storedObjects := metrics.NewRegisteredMeter("object.stored", registry)
	sealed := metrics.NewRegisteredMeter("checkpoint.sealed", registry)
	fetched := metrics.NewRegisteredMeter("record.fetched", registry)
	pruned := metrics.NewRegisteredMeter("object.pruned", registry)

	lookupLatency := metrics.NewRegisteredTimer("lookup.latency", registry)
	sealLatency := metrics.NewRegisteredTimer("seal.latency", registry)

	go func() {
		logger := log.Metrics()

		for {
			select {
			case <-time.After(1 * time.Second):
				logger.Info().
					Int64("tx.stored", storedTX.Count()).
					Int64("object.stored", storedObjects.Count()).
					Int64("checkpoint.sealed", sealed.Count()).
					Int64("record.fetched", fetched.Count()).
					Int64("object.pruned", pruned.Count()).
					Float64("rps.stored", storedTX.Rate1()).
					Float64("rps.fetched", fetched.Rate1()).
					Str("lookup.latency.max.ms", time.Duration(lookupLatency.Max()).String()).
					Str("lookup.latency.min.ms", time.Duration(lookupLatency.Min()).String()).
					Str("lookup.latency.mean.ms", time.Duration(lookupLatency.Mean()).String()).
					Str("seal.latency.max.ms", time.Duration(sealLatency.Max()).String()).
					Str("seal.latency.min.ms", time.Duration(sealLatency.Min()).String()).
					Str("seal.latency.mean.ms", time.Duration(sealLatency.Mean()).String()).
					Msg("Updated metrics.")
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Metrics{
		registry: registry,

		storedTX:      storedTX,
		storedObjects: storedObjects,
		sealed:        sealed,
		fetched:       fetched,
		pruned:        pruned,

		lookupLatency: lookupLatency,
		sealLatency:   sealLatency,
	}
}

func (m *Metrics) Stop() {
	m.storedTX.Stop()
	m.storedObjects.Stop()
	m.sealed.Stop()
	m.fetched.Stop()
	m.pruned.Stop()

	m.lookupLatency.Stop()
	m.sealLatency.Stop()
}
