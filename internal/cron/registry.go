package cron

import (
	"context"
	"fmt"
	"slices"
)

// Job is one maintenance task. Run reports how many rows it repaired or
// expired.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

// Registry holds uniquely named jobs in registration order.
type Registry struct {
	jobs []Job
}

// NewRegistry registers jobs in order. Nil jobs are skipped.
func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register appends job. Job names label logs and metrics, so a second job
// with the same name is rejected.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	if slices.ContainsFunc(r.jobs, func(existing Job) bool { return existing.Name() == job.Name() }) {
		return fmt.Errorf("job %q already registered", job.Name())
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) Jobs() []Job {
	return slices.Clone(r.jobs)
}
