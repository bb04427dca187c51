// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	PostsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_posts_published_total",
			Help: "Total number of publish actions on posts",
		},
	)

	CommentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_comment_operations_total",
			Help: "Total number of comment operations processed",
		},
		[]string{"operation"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)
)

// Comment operation labels
const (
	CommentSubmitted = "submitted"
	CommentApproved  = "approved"
	CommentRemoved   = "removed"
)

// Login result labels
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)
