package workerpool

import (
	"context"
	"log/slog"
	"sync"
)

// Task 定义任务函数类型
type Task func(ctx context.Context)

// Pool Worker Pool 实现
type Pool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	pending   sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
	closeOnce sync.Once
}

// New 创建一个新的 Worker Pool
// workers: worker 数量
// queueSize: 任务队列大小
func New(workers int, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default().With("component", "WorkerPool")
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		workers:   workers,
		taskQueue: make(chan Task, queueSize),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}

	// 启动 workers
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	pool.logger.Debug("Worker pool started",
		"workers", workers,
		"queue_size", queueSize)

	return pool
}

// worker 工作协程
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		p.run(id, task)
	}
}

// run 执行任务，捕获 panic
func (p *Pool) run(id int, task Task) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task panic recovered",
				"worker_id", id,
				"panic", r)
		}
	}()
	task(p.ctx)
}

// Submit 提交任务到 Worker Pool
// 如果队列满了，会阻塞直到有空位或 ctx / pool 被取消
func (p *Pool) Submit(ctx context.Context, task Task) bool {
	p.pending.Add(1)
	select {
	case <-p.ctx.Done():
	case <-ctx.Done():
	case p.taskQueue <- task:
		return true
	}
	p.pending.Done()
	return false
}

// TrySubmit 尝试提交任务，如果队列满了立即返回 false
func (p *Pool) TrySubmit(task Task) bool {
	p.pending.Add(1)
	select {
	case <-p.ctx.Done():
	case p.taskQueue <- task:
		return true
	default:
		// 队列满了
	}
	p.pending.Done()
	return false
}

// Wait 等待已提交的任务全部完成
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Shutdown 优雅关闭 Worker Pool，等待已提交的任务完成
// Shutdown 之后不能再 Submit
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() {
		close(p.taskQueue)
		p.wg.Wait()
		p.cancel()
		p.logger.Debug("Worker pool shutdown completed")
	})
}

// Stop 取消正在执行任务的 context 并关闭
func (p *Pool) Stop() {
	p.cancel()
	p.Shutdown()
}
