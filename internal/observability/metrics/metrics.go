package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	CredentialsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voting_credentials_issued_total",
			Help: "Total number of voting credential issuance attempts.",
		},
		[]string{"service", "result"},
	)

	VotesCastTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voting_votes_cast_total",
			Help: "Total number of vote submissions by outcome.",
		},
		[]string{"service", "result"},
	)

	InvitationsDeliveredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voting_invitations_delivered_total",
			Help: "Total number of invitation deliveries by outcome.",
		},
		[]string{"service", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	CredentialsIssuedTotal = CredentialsIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	VotesCastTotal = VotesCastTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	InvitationsDeliveredTotal = InvitationsDeliveredTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		CredentialsIssuedTotal,
		VotesCastTotal,
		InvitationsDeliveredTotal,
	)
}
