// Package worker provides background analysis of track preview audio.
// Jobs are fire-and-forget: the request path never waits on them.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

// Job points at one cached resolution whose preview should be analyzed.
type Job struct {
	Key        string
	PreviewURL string
}

// Pool manages background workers for preview analysis.
type Pool struct {
	cache ports.ResolutionCache
	jobs  chan Job
	wg    sync.WaitGroup
}

var _ ports.PreviewAnalyzer = (*Pool)(nil)

// NewPool creates a worker pool with the given queue size.
func NewPool(cache ports.ResolutionCache, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{cache: cache, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking; jobs are dropped when the queue is
// full.
func (p *Pool) Submit(key, previewURL string) {
	select {
	case p.jobs <- Job{Key: key, PreviewURL: previewURL}:
	default:
		log.Printf("WARN worker: dropping analysis job for %s", key)
	}
}

func (p *Pool) processJob(job Job) {
	if job.PreviewURL == "" {
		return
	}

	energy, err := AnalyzePreviewFunc(job.PreviewURL)
	if err != nil {
		log.Printf("WARN worker: preview analysis failed for %s: %v", job.Key, err)
		return
	}

	if err := p.cache.UpdateEnergy(context.Background(), job.Key, energy); err != nil {
		log.Printf("WARN worker: failed to store energy for %s: %v", job.Key, err)
		return
	}
	log.Printf("DEBUG worker: stored preview energy %.2f for %s", energy, job.Key)
}
