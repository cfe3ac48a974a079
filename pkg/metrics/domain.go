package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Trigger labels for quotation total recomputes.
const (
	TriggerItemAdded   = "item_added"
	TriggerItemUpdated = "item_updated"
	TriggerItemDeleted = "item_deleted"
	TriggerManual      = "manual"
)

// DomainMetrics counts provisioning and quotation side effects.
type DomainMetrics struct {
	profilesCreated  prometheus.Counter
	groupAssignments *prometheus.CounterVec
	recomputes       *prometheus.CounterVec
	recomputeErrors  *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
// A nil registerer yields a no-op value.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	profilesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "profiles_created_total",
		Help: "Profiles created by user provisioning.",
	})
	groupAssignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_assignments_total",
		Help: "Users added to a permission group, by group.",
	}, []string{"group"})
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_total_recomputes_total",
		Help: "Quotation estimated total recomputes, by trigger.",
	}, []string{"trigger"})
	recomputeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_total_recompute_conflicts_total",
		Help: "Recomputes rejected by the version check, by trigger.",
	}, []string{"trigger"})
	reg.MustRegister(profilesCreated, groupAssignments, recomputes, recomputeErrors)
	return &DomainMetrics{
		profilesCreated:  profilesCreated,
		groupAssignments: groupAssignments,
		recomputes:       recomputes,
		recomputeErrors:  recomputeErrors,
	}
}

// IncProfileCreated counts a newly inserted profile.
func (m *DomainMetrics) IncProfileCreated() {
	if m == nil || m.profilesCreated == nil {
		return
	}
	m.profilesCreated.Inc()
}

// IncGroupAssignment counts a membership added to the named group.
func (m *DomainMetrics) IncGroupAssignment(group string) {
	if m == nil || m.groupAssignments == nil {
		return
	}
	m.groupAssignments.WithLabelValues(normalizeLabel(group)).Inc()
}

// IncRecompute counts a persisted total recompute.
func (m *DomainMetrics) IncRecompute(trigger string) {
	if m == nil || m.recomputes == nil {
		return
	}
	m.recomputes.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncRecomputeConflict counts a recompute that lost the version race.
func (m *DomainMetrics) IncRecomputeConflict(trigger string) {
	if m == nil || m.recomputeErrors == nil {
		return
	}
	m.recomputeErrors.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
