package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecalculationsTotal 院校匹配重算次数
	RecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counsellor_recalculations_total",
			Help: "Total number of university match recalculations",
		},
		[]string{"mode", "result"},
	)

	// RecalculationDuration 重算耗时
	RecalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "counsellor_recalculation_duration_seconds",
			Help:    "Duration of a full recalculation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// DirectoryRequestDuration 单次目录服务请求耗时
	DirectoryRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "counsellor_directory_request_duration_seconds",
			Help: "Duration of university directory requests in seconds",
		},
		[]string{"country"},
	)

	// DirectoryRequestsFailed 目录服务失败次数
	DirectoryRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counsellor_directory_requests_failed_total",
			Help: "Total number of failed university directory requests",
		},
		[]string{"country"},
	)

	// LLMRequestsTotal 大模型调用次数
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counsellor_llm_requests_total",
			Help: "Total number of LLM completion requests",
		},
		[]string{"purpose", "result"},
	)
)

var (
	// HTTPRequestsTotal HTTP 请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counsellor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "counsellor_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
