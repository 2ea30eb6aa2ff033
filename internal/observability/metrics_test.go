package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("weftd", "GET", "/healthz", 200, 12*time.Millisecond)
	RecordDispatch("notes", "view", "ok", 24*time.Millisecond)
	RecordDispatch("notes", "view", "redirect", 8*time.Millisecond)
}
