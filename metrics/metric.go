// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/torproject/nodelist/utils/wrappers"
)

// Averager tracks a running average
type Averager interface {
	Observe(value float64)
	Read() float64
}

// averager implements Averager
type averager struct {
	mu    sync.RWMutex
	sum   float64
	count float64

	// Prometheus metrics
	promCount prometheus.Counter
	promSum   prometheus.Gauge
}

// NewAverager returns a new Averager
func NewAverager(name, help string, reg prometheus.Registerer) (Averager, error) {
	// Register two metrics: one for count and one for sum
	count := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_count",
		Help: "Total # of observations of " + help,
	})
	sum := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_sum",
		Help: "Sum of " + help,
	})

	if err := reg.Register(count); err != nil {
		return nil, err
	}
	if err := reg.Register(sum); err != nil {
		return nil, err
	}

	return &averager{
		promCount: count,
		promSum:   sum,
	}, nil
}

// NewAveragerWithErrs returns a new Averager and adds any errors to the provided error list
func NewAveragerWithErrs(name, help string, reg prometheus.Registerer, errs *wrappers.Errs) Averager {
	a, err := NewAverager(name, help, reg)
	if err != nil {
		if errs != nil {
			errs.Add(err)
		}
		// Return a no-op averager on error
		return &averager{}
	}
	return a
}

// Observe adds a value to the average
func (a *averager) Observe(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sum += value
	a.count++

	// Update prometheus metrics if available
	if a.promCount != nil {
		a.promCount.Inc()
	}
	if a.promSum != nil {
		a.promSum.Add(value)
	}
}

// Read returns the current average
func (a *averager) Read() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.count == 0 {
		return 0
	}
	return a.sum / a.count
}
