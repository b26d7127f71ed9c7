// Package metrics holds the Prometheus collectors of the relay.
//
// Collectors are registered on the default registry at init. MetricsHandler
// serves them; the relay mounts it at /metrics only when METRICS_ENABLED is
// set. InstrumentSender decorates an email.Sender with delivery counters
// labelled by upstream host and failure kind.
package metrics
