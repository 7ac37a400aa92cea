package scheduler

import "time"

// TaskInfo is a read-only view of one registered task.
type TaskInfo struct {
	Name     string
	Mode     Mode
	NextRun  time.Time
	Interval time.Duration
	Priority int
}

// Snapshot is a point-in-time view of the service, for status output and
// debugging. It is not a synchronization primitive.
type Snapshot struct {
	Running      bool
	PollInterval time.Duration
	InFlight     int64
	Runs         uint64
	Failures     uint64
	Tasks        []TaskInfo
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	running := s.stopCh != nil
	poll := s.pollIntervalLocked()
	s.mu.Unlock()

	tasks := s.registry.Snapshot()
	infos := make([]TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, TaskInfo{
			Name:     t.Name,
			Mode:     t.Mode,
			NextRun:  t.NextRun,
			Interval: t.Interval,
			Priority: t.Priority,
		})
	}

	return Snapshot{
		Running:      running,
		PollInterval: poll,
		InFlight:     s.disp.inFlight.Load(),
		Runs:         s.disp.runs.Load(),
		Failures:     s.disp.failures.Load(),
		Tasks:        infos,
	}
}
