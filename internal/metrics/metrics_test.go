package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}

func TestObserveComputation(t *testing.T) {
	before := testutil.ToFloat64(computationsTotal.WithLabelValues("positions", OutcomeSuccess))
	ObserveComputation("positions", 3*time.Millisecond, OutcomeSuccess)
	if got := testutil.ToFloat64(computationsTotal.WithLabelValues("positions", OutcomeSuccess)); got != before+1 {
		t.Fatalf("expected success counter %v, got %v", before+1, got)
	}

	beforeErr := testutil.ToFloat64(computationsTotal.WithLabelValues("schedule", OutcomeError))
	ObserveComputation("schedule", -time.Second, "unexpected")
	if got := testutil.ToFloat64(computationsTotal.WithLabelValues("schedule", OutcomeError)); got != beforeErr+1 {
		t.Fatalf("unknown outcome should count as error, got %v", got)
	}
}
