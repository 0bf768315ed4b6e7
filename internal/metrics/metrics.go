// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRollback()
	RecordReconcileLatency(duration time.Duration)
	RecordReleasesListed(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	loginSuccess     prometheus.Counter
	loginFail        prometheus.Counter
	rollbacks        prometheus.Counter
	reconcileLatency prometheus.Histogram
	releasesListed   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "releaseman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "releaseman_login_success_total",
			Help: "管理者ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "releaseman_login_fail_total",
			Help: "管理者ログイン失敗の合計数",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "releaseman_rollback_total",
			Help: "実行されたロールバックの合計数",
		}),
		reconcileLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "releaseman_reconcile_latency_seconds",
			Help:    "リリース一覧突合処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		releasesListed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "releaseman_releases_listed",
			Help:    "1回の突合で返したリリース数",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.loginSuccess,
		c.loginFail,
		c.rollbacks,
		c.reconcileLatency,
		c.releasesListed,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordRollback はロールバック実行を記録する。
func (c *Collector) RecordRollback() {
	c.rollbacks.Inc()
}

// RecordReconcileLatency は突合処理のレイテンシを記録する。
func (c *Collector) RecordReconcileLatency(duration time.Duration) {
	c.reconcileLatency.Observe(duration.Seconds())
}

// RecordReleasesListed は返却したリリース数を記録する。
func (c *Collector) RecordReleasesListed(count int) {
	c.releasesListed.Observe(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// アプリケーション本体とは別ポートで公開することを想定している。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
