package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"tdui/internal/service"
)

// Dispatcher runs backend mutations as detached goroutines. Create and update
// report to the mailbox; close and delete report nothing.
//
// There is no cancellation. Each call runs to completion or failure, bounded
// only by the backend's own request timeout.
type Dispatcher struct {
	svc    service.Service
	box    *Mailbox
	logger *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher returns a dispatcher that sends results to box.
func NewDispatcher(svc service.Service, box *Mailbox, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{svc: svc, box: box, logger: logger}
}

// Create submits req.
func (d *Dispatcher) Create(req service.CreateRequest) {
	d.spawn(func(ctx context.Context) {
		t, err := d.svc.CreateTask(ctx, req)
		if err != nil {
			d.logger.Debug("create task failed", "project", req.ProjectID, "err", err)
			d.box.Send(Failed(OpCreate, err.Error()))
			return
		}
		d.logger.Debug("task created", "id", t.ID)
		d.box.Send(Completed(OpCreate, t))
	})
}

// Update submits req.
func (d *Dispatcher) Update(req service.UpdateRequest) {
	d.spawn(func(ctx context.Context) {
		t, err := d.svc.UpdateTask(ctx, req)
		if err != nil {
			d.logger.Debug("update task failed", "id", req.TaskID, "err", err)
			d.box.Send(Failed(OpUpdate, err.Error()))
			return
		}
		d.logger.Debug("task updated", "id", t.ID)
		d.box.Send(Completed(OpUpdate, t))
	})
}

// Close marks a task completed remotely.
func (d *Dispatcher) Close(taskID string) {
	d.spawn(func(ctx context.Context) {
		if err := d.svc.CloseTask(ctx, taskID); err != nil {
			d.logger.Warn("close task failed", "id", taskID, "err", err)
		}
	})
}

// Delete removes a task remotely.
func (d *Dispatcher) Delete(taskID string) {
	d.spawn(func(ctx context.Context) {
		if err := d.svc.DeleteTask(ctx, taskID); err != nil {
			d.logger.Warn("delete task failed", "id", taskID, "err", err)
		}
	})
}

// Wait blocks until every spawned mutation has finished. The interactive
// loop never calls it; the CLI and tests do.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) spawn(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn(context.Background())
	}()
}
