// services/sweeper.go - Background sweep for stalled generations
package services

import (
	"log"
	"os"
	"time"
)

// Sweeper periodically fails projects stuck in the generating state past a
// deadline, so a crashed process or a generative call that never returns
// cannot leave a record pending forever.
type Sweeper struct {
	projects *ProjectService
	interval time.Duration
	deadline time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(projects *ProjectService) *Sweeper {
	deadline := 5 * time.Minute
	if raw := os.Getenv("GENERATION_DEADLINE"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			deadline = parsed
		} else {
			log.Printf("Invalid GENERATION_DEADLINE %q, using default %s", raw, deadline)
		}
	}

	return &Sweeper{
		projects: projects,
		interval: time.Minute,
		deadline: deadline,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
	log.Printf("🧹 Generation sweeper started (deadline %s)", s.deadline)
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweep() {
	swept, err := s.projects.FailStale(s.deadline)
	if err != nil {
		log.Printf("Sweeper: failed to sweep stale projects: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("🧹 Swept %d stalled generation(s) to error state", swept)
	}
}
