package utils

import (
	"context"
	"errors"
	"testing"
)

func TestHealthMonitorCheckNow(t *testing.T) {
	m := NewHealthMonitor(map[string]HealthCheck{
		"sqlite": func(ctx context.Context) error { return nil },
		"redis":  func(ctx context.Context) error { return errors.New("connection refused") },
	})

	status := m.CheckNow(context.Background())
	if status.Healthy {
		t.Error("Expected unhealthy status when one check fails")
	}
	if !status.Checks["sqlite"] {
		t.Error("Expected sqlite check to pass")
	}
	if status.Checks["redis"] {
		t.Error("Expected redis check to fail")
	}
	if got := m.Status(); got.CheckedAt != status.CheckedAt {
		t.Errorf("Expected stored snapshot to match, got %v", got.CheckedAt)
	}
}
