package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestObserveUpstream_CountsOutcomes(t *testing.T) {
	reg := New()

	reg.ObserveUpstream(ComponentGeocoding, 20*time.Millisecond, nil)
	reg.ObserveUpstream(ComponentGeocoding, 30*time.Millisecond, errors.New("boom"))
	reg.ObserveUpstream(ComponentGeocoding, 10*time.Millisecond, nil)

	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "ava_upstream_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			var outcome string
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					outcome = label.GetValue()
				}
			}
			counts[outcome] = metric.GetCounter().GetValue()
		}
	}

	if counts[OutcomeSuccess] != 2 {
		t.Fatalf("expected 2 successes, got %v", counts[OutcomeSuccess])
	}
	if counts[OutcomeFailure] != 1 {
		t.Fatalf("expected 1 failure, got %v", counts[OutcomeFailure])
	}
}
