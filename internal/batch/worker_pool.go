package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is one unit of batch work, tagged with the entity id it operates
// on so results can be attributed after the fact.
type Task struct {
	ID uuid.UUID
	Fn func(ctx context.Context) error
}

type Result struct {
	ID  uuid.UUID
	Err error
}

// Pool executes tasks with a fixed number of workers. Submit everything,
// Close, then drain Run's channel. A canceled context stops dispatching
// new tasks; tasks already picked up run to completion.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

func (p *Pool) Submit(t Task) {
	if p == nil || t.Fn == nil {
		return
	}
	p.tasks <- t
}

func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, cap(p.tasks)+p.workers)
	if p == nil {
		close(out)
		return out
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					err := t.Fn(ctx)
					select {
					case out <- Result{ID: t.ID, Err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
