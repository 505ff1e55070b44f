package notify

import "github.com/prometheus/client_golang/prometheus"

const (
	resultSent      = "sent"
	resultFailed    = "failed"
	resultSaturated = "saturated"
	resultRejected  = "rejected"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "taskflow_notify_requests_total",
		Help: "Webhook deliveries by outcome",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}
