// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/utils/wrappers"
)

// MetricsListener is a SetCallbackListener that drives node-count and
// reconciliation-event Prometheus series, decoupling those concerns from
// the reconciler itself.
type MetricsListener struct {
	nodeCount    prometheus.Gauge
	added        prometheus.Counter
	removed      prometheus.Counter
	flagsChanged prometheus.Counter

	nl *NodeList
}

// NewMetricsListener registers the listener's series against reg and
// returns a listener ready to register with nl.RegisterCallbackListener.
func NewMetricsListener(nl *NodeList, reg prometheus.Registerer) (*MetricsListener, error) {
	l := &MetricsListener{
		nl: nl,
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nodelist_nodes",
			Help: "Number of nodes currently held by the nodelist.",
		}),
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodelist_nodes_added_total",
			Help: "Total number of nodes created by the reconciler.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodelist_nodes_removed_total",
			Help: "Total number of nodes dropped by the reconciler.",
		}),
		flagsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodelist_flags_changed_total",
			Help: "Total number of consensus-flag mirroring events.",
		}),
	}

	var errs wrappers.Errs
	errs.Add(reg.Register(l.nodeCount))
	errs.Add(reg.Register(l.added))
	errs.Add(reg.Register(l.removed))
	errs.Add(reg.Register(l.flagsChanged))
	if errs.Errored() {
		return nil, errs.Err()
	}
	return l, nil
}

func (l *MetricsListener) OnNodeAdded(identity.Fingerprint) {
	l.added.Inc()
	l.nodeCount.Set(float64(l.nl.Len()))
}

func (l *MetricsListener) OnNodeRemoved(identity.Fingerprint) {
	l.removed.Inc()
	l.nodeCount.Set(float64(l.nl.Len()))
}

func (l *MetricsListener) OnNodeFlagsChanged(identity.Fingerprint) {
	l.flagsChanged.Inc()
}
