package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 告警与推送相关指标
var (
	AlertsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alerts_created_total",
		Help: "Total number of remote alert records created",
	})

	PushSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_sent_total",
		Help: "Total number of push dispatch attempts that succeeded",
	})

	PushFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_failed_total",
		Help: "Total number of push dispatch attempts that were rejected",
	})

	FanoutEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanout_empty_total",
		Help: "Fan-outs that found no follower tokens",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
