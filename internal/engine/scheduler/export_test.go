package scheduler

import (
	"maps"

	"go.trai.ch/mill/internal/core/domain"
)

// GetTaskStatusMap returns a copy of the internal task status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetTaskStatusMap() map[domain.Path]domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.taskStatus)
}
