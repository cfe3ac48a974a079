package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDomainMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDomainMetrics(reg)
	metrics.IncProfileCreated()
	metrics.IncProfileCreated()
	metrics.IncGroupAssignment("Administradores")
	metrics.IncRecompute(TriggerItemAdded)
	metrics.IncRecompute(TriggerItemAdded)
	metrics.IncRecompute(TriggerItemDeleted)
	metrics.IncRecomputeConflict(TriggerItemDeleted)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "profiles_created_total", "", ""); err != nil {
		t.Fatalf("fetch profiles: %v", err)
	} else if got != 2 {
		t.Fatalf("expected profiles=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "group_assignments_total", "group", "Administradores"); err != nil {
		t.Fatalf("fetch assignments: %v", err)
	} else if got != 1 {
		t.Fatalf("expected assignments=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "quotation_total_recomputes_total", "trigger", TriggerItemAdded); err != nil {
		t.Fatalf("fetch recomputes: %v", err)
	} else if got != 2 {
		t.Fatalf("expected item_added recomputes=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "quotation_total_recompute_conflicts_total", "trigger", TriggerItemDeleted); err != nil {
		t.Fatalf("fetch conflicts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}
}

func TestDomainMetricsNilSafe(t *testing.T) {
	var nilMetrics *DomainMetrics
	nilMetrics.IncProfileCreated()
	nilMetrics.IncGroupAssignment("Clientes")
	nilMetrics.IncRecompute(TriggerManual)

	unregistered := NewDomainMetrics(nil)
	unregistered.IncProfileCreated()
	unregistered.IncRecomputeConflict("")
}

func TestNormalizeLabel(t *testing.T) {
	if got := normalizeLabel(""); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := normalizeLabel("Clientes"); got != "Clientes" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
