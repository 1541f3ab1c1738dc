package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommand_SplitsByResult(t *testing.T) {
	okBefore := testutil.ToFloat64(commandsTotal.WithLabelValues("rename", "ok"))
	errBefore := testutil.ToFloat64(commandsTotal.WithLabelValues("rename", "error"))

	RecordCommand("rename", nil)
	RecordCommand("rename", nil)
	RecordCommand("rename", errors.New("x"))

	assert.Equal(t, okBefore+2, testutil.ToFloat64(commandsTotal.WithLabelValues("rename", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(commandsTotal.WithLabelValues("rename", "error")))
}

func TestObserveRebuild_SetsNodeGauge(t *testing.T) {
	ObserveRebuild(time.Millisecond, 42)
	assert.Equal(t, float64(42), testutil.ToFloat64(treeNodes))
}

func TestHandler_ExposesFernMetrics(t *testing.T) {
	RecordDiskOp("mkdir", nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fern_disk_ops_total"), "metrics body missing counter")
}
