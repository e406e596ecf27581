package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — метрики процесса верификации и онбординга.
// Все методы безопасно вызываются на nil.
type Metrics struct {
	// Результаты шагов: step = initiate|finalize|resend|link, outcome = код ошибки или "ok".
	StepOutcome *prometheus.CounterVec

	// Задержки внешних провайдеров: provider = kyc|sms.
	ProviderLatency *prometheus.HistogramVec

	LearnersCreated prometheus.Counter
}

// New регистрирует метрики в стандартном реестре. Вызывается один раз при старте.
func New() *Metrics {
	return &Metrics{
		StepOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fme_verification_steps_total",
			Help: "NIN verification workflow steps by step and outcome",
		}, []string{"step", "outcome"}),

		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fme_provider_request_duration_seconds",
			Help:    "Duration of KYC and SMS provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 45},
		}, []string{"provider", "outcome"}),

		LearnersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fme_learners_created_total",
			Help: "Learner accounts created from verified NIN records",
		}),
	}
}

func (m *Metrics) IncStep(step, outcome string) {
	if m != nil {
		m.StepOutcome.WithLabelValues(step, outcome).Inc()
	}
}

func (m *Metrics) ObserveProvider(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func (m *Metrics) IncLearnerCreated() {
	if m != nil {
		m.LearnersCreated.Inc()
	}
}
