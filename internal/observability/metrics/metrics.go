package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	providerLatency  prometheus.Histogram
	chatRepliesTotal *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nixrix",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by kind and outcome",
		}, []string{"kind", "status"}),
		providerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nixrix",
			Subsystem: "leads",
			Name:      "provider_latency_seconds",
			Help:      "Latency of outbound email provider calls",
			Buckets:   prometheus.DefBuckets,
		}),
		chatRepliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nixrix",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Total canned chatbot replies by matched rule",
		}, []string{"rule"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.providerLatency, m.chatRepliesTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(kind, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(kind, status).Inc()
}

func (m *LeadMetrics) ObserveProviderLatency(seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.Observe(seconds)
}

func (m *LeadMetrics) ObserveChatReply(rule string) {
	if m == nil {
		return
	}
	m.chatRepliesTotal.WithLabelValues(rule).Inc()
}
