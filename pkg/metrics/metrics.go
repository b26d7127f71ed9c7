package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/mailrelay/core/email"
)

var (
	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailrelay_mail_send_success_total",
		Help: "Total number of verification emails accepted by the upstream server",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailrelay_mail_send_failure_total",
		Help: "Total number of failed verification email sends by failure kind",
	}, []string{"host", "kind"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailrelay_mail_send_duration_seconds",
		Help:    "Duration of a complete send attempt, including the SMTP dialogue",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"result"})

	// Access filter metrics
	AccessDenied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mailrelay_access_denied_total",
		Help: "Total number of requests rejected by the IP allow-list",
	})
)

func init() {
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSendDuration)
	prometheus.MustRegister(AccessDenied)
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// InstrumentSender wraps next so every send is counted per upstream host and
// failure kind.
func InstrumentSender(next email.Sender, host string) email.Sender {
	return &instrumentedSender{next: next, host: host}
}

type instrumentedSender struct {
	next email.Sender
	host string
}

func (s *instrumentedSender) SendVerification(ctx context.Context, params email.VerificationParams) error {
	start := time.Now()
	err := s.next.SendVerification(ctx, params)
	if err != nil {
		kind := email.KindOf(err)
		if kind == "" {
			kind = "unknown"
		}
		MailSendFailure.WithLabelValues(s.host, string(kind)).Inc()
		MailSendDuration.WithLabelValues("failure").Observe(time.Since(start).Seconds())
		return err
	}
	MailSendSuccess.WithLabelValues(s.host).Inc()
	MailSendDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	return nil
}
