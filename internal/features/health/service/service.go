package service

import (
	"context"

	"github.com/aouiniamine/eyecheck/internal/features/health/dto"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Check probes one dependency; a nil error means healthy.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type HealthService interface {
	Check(ctx context.Context) *dto.ReadyResponse
}

type healthService struct {
	checks []Check
}

func New(checks ...Check) HealthService {
	return &healthService{checks: checks}
}

func (s *healthService) Check(ctx context.Context) *dto.ReadyResponse {
	status := &dto.ReadyResponse{
		Status:   StatusHealthy,
		Services: make(map[string]string, len(s.checks)),
	}

	for _, c := range s.checks {
		if err := c.Probe(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Services[c.Name] = StatusUnhealthy
			continue
		}
		status.Services[c.Name] = StatusHealthy
	}

	return status
}
