package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat reply outcomes, used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeMissingKey  = "missing_key"
	OutcomeAPIError    = "api_error"
	OutcomeTimeout     = "timeout"
	OutcomeConnection  = "connection"
	OutcomeNoChoices   = "no_choices"
	OutcomeMalformed   = "malformed"
	OutcomeUnavailable = "error"
)

// ChatMetrics counts chat replies by outcome.
type ChatMetrics struct {
	replies *prometheus.CounterVec
}

// NewChatMetrics registers the chat collectors with reg. A nil reg creates
// unregistered collectors.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	return &ChatMetrics{
		replies: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "devblog",
			Name:      "chat_replies_total",
			Help:      "Chat replies by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *ChatMetrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(outcome).Inc()
}
