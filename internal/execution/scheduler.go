package execution

import "ctp/internal/config"

// Scheduler distributes items across workers
type Scheduler[T any] interface {
	Schedule(items []T, workerCount int) [][]T
}

// RoundRobinScheduler distributes items evenly across workers
type RoundRobinScheduler[T any] struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler[T any]() *RoundRobinScheduler[T] {
	return &RoundRobinScheduler[T]{}
}

// Schedule distributes items evenly across workers using round-robin
func (s *RoundRobinScheduler[T]) Schedule(items []T, workerCount int) [][]T {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]T, workerCount)
	for i := range distribution {
		distribution[i] = make([]T, 0, len(items)/workerCount+1)
	}

	for i, item := range items {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], item)
	}

	return distribution
}

// Shard keeps the items that fall into shard, using the scheduler's distribution
func Shard[T any](s Scheduler[T], items []T, shard config.Shard) []T {
	if !shard.Enabled() {
		return items
	}
	return s.Schedule(items, shard.Total)[shard.Index-1]
}
