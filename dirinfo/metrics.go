// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dirinfo

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/torproject/nodelist/metrics"
	"github.com/torproject/nodelist/utils/wrappers"
)

// Metrics exports the readiness estimator's fractions and its
// have_min_dir_info gate as Prometheus series, the natural operational
// surface for a directory subsystem bootstrapping. fPathAvg additionally
// tracks a running average of f_path, smoothing over the single-sample
// jitter that a relay flapping in and out of the consensus would
// otherwise put directly on the instantaneous gauge.
type Metrics struct {
	fGuard prometheus.Gauge
	fMid   prometheus.Gauge
	fExit  prometheus.Gauge
	fPath  prometheus.Gauge
	ready  prometheus.Gauge

	fPathAvg metrics.Averager
}

// NewMetrics registers the estimator's gauges against reg. Registration
// errors are accumulated rather than returned individually, matching the
// batch-validation style used elsewhere in this codebase.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fGuard: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirinfo_f_guard",
			Help: "Bandwidth-weighted fraction of the guard bucket we have descriptors for.",
		}),
		fMid: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirinfo_f_mid",
			Help: "Bandwidth-weighted fraction of the middle bucket we have descriptors for.",
		}),
		fExit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirinfo_f_exit",
			Help: "Bandwidth-weighted fraction of the exit bucket we have descriptors for.",
		}),
		fPath: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirinfo_f_path",
			Help: "Product of f_guard, f_mid and f_exit.",
		}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirinfo_have_min_dir_info",
			Help: "1 if the client believes it has enough directory info to build circuits, else 0.",
		}),
	}

	var errs wrappers.Errs
	errs.Add(reg.Register(m.fGuard))
	errs.Add(reg.Register(m.fMid))
	errs.Add(reg.Register(m.fExit))
	errs.Add(reg.Register(m.fPath))
	errs.Add(reg.Register(m.ready))
	m.fPathAvg = metrics.NewAveragerWithErrs("dirinfo_f_path_avg", "f_path across recomputations", reg, &errs)
	if errs.Errored() {
		return nil, errs.Err()
	}
	return m, nil
}

func (m *Metrics) observeFractions(fGuard, fMid, fExit, fPath float64) {
	m.fGuard.Set(fGuard)
	m.fMid.Set(fMid)
	m.fExit.Set(fExit)
	m.fPath.Set(fPath)
	m.fPathAvg.Observe(fPath)
}

func (m *Metrics) observeReady(ready bool) {
	if ready {
		m.ready.Set(1)
		return
	}
	m.ready.Set(0)
}
