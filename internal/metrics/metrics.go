// Package metrics provides Prometheus metrics for fern.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Tree commands applied through the executor.
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fern_commands_total",
			Help: "Total number of tree commands applied",
		},
		[]string{"command", "result"},
	)

	// Disk operations performed before reconciliation.
	diskOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fern_disk_ops_total",
			Help: "Total number of filesystem operations",
		},
		[]string{"op", "result"},
	)

	treeNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fern_tree_nodes",
			Help: "Number of files and directories in the tree",
		},
	)

	projectionRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fern_projection_rebuild_duration_seconds",
			Help:    "Time to rebuild the display projection",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordCommand counts one applied tree command.
func RecordCommand(command string, err error) {
	commandsTotal.WithLabelValues(command, result(err)).Inc()
}

// RecordDiskOp counts one filesystem operation.
func RecordDiskOp(op string, err error) {
	diskOpsTotal.WithLabelValues(op, result(err)).Inc()
}

// ObserveRebuild matches the filetree rebuild hook signature.
func ObserveRebuild(elapsed time.Duration, nodes int) {
	projectionRebuildDuration.Observe(elapsed.Seconds())
	treeNodes.Set(float64(nodes))
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
}
