package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"parcelflow/pkg/logger"
)

// Task периодическая фоновая задача.
type Task interface {
	// TTL интервал между запусками, <= 0 означает только прогрев при старте.
	TTL() time.Duration
	Do(context.Context) error
	Info() string
}

type workerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
}

type Worker struct {
	log   workerLogger
	tasks []Task
	wg    sync.WaitGroup
}

// New прогревает задачи синхронно и запускает периодическое выполнение.
// Ошибка или паника на прогреве любой задачи возвращается как ошибка New,
// периодические запуски останавливаются при отмене ctx.
func New(ctx context.Context, log workerLogger, tasks ...Task) (*Worker, error) {
	w := &Worker{
		log:   log,
		tasks: tasks,
	}

	warmup, warmupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		warmup.Go(func() error {
			log.Info("warming up background task", logger.NewField("task", task.Info()))
			return w.safeDo(warmupCtx, task)
		})
	}

	if err := warmup.Wait(); err != nil {
		return nil, fmt.Errorf("background tasks warmup failed: %w", err)
	}

	for _, task := range tasks {
		if task.TTL() <= 0 {
			log.Warn("background task has no TTL, periodic run disabled",
				logger.NewField("task", task.Info()),
			)
			continue
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx, task)
		}()
	}

	return w, nil
}

// Wait блокируется пока не завершатся все периодические циклы.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.TTL())
	defer ticker.Stop()

	w.log.Info("background task scheduled",
		logger.NewField("task", task.Info()),
		logger.NewField("ttl", task.TTL().String()),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("background task stopped", logger.NewField("task", task.Info()))
			return
		case <-ticker.C:
			if err := w.safeDo(ctx, task); err != nil {
				w.log.Error("background task failed",
					logger.NewField("task", task.Info()),
					logger.NewField("error", err),
				)
			}
		}
	}
}

func (w *Worker) safeDo(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Info(), r)
			w.log.Error("background task panic",
				logger.NewField("task", task.Info()),
				logger.NewField("recover", r),
				logger.NewField("stack", string(debug.Stack())),
			)
		}
	}()

	return task.Do(ctx)
}
