package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs submitted jobs on a fixed number of goroutines. Results come
// back from Wait in submission order.
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	results    chan indexedResult
	collected  []Result
	done       chan struct{}
	submitted  int
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops the workers.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		results:    make(chan indexedResult, workers*2),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			// results is drained by collect until every worker has exited
			p.results <- indexedResult{index: ij.index, result: ij.job.Execute(p.ctx)}
		}
	}
}

func (p *Pool) collect() {
	defer close(p.done)
	for r := range p.results {
		for len(p.collected) <= r.index {
			p.collected = append(p.collected, nil)
		}
		p.collected[r.index] = r.result
	}
}

// Submit queues a job. It is dropped, keeping its nil result slot, if the
// pool has been cancelled. Submit must not be called concurrently with
// itself or after Wait.
func (p *Pool) Submit(job Job) {
	index := p.submitted
	p.submitted++
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- indexedJob{index: index, job: job}:
	}
}

// Wait closes the queue, waits for the workers and returns one slot per
// submitted job. Jobs skipped by cancellation leave a nil slot.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)
	<-p.done
	p.cancelFunc()

	out := make([]Result, p.submitted)
	copy(out, p.collected)
	return out
}
