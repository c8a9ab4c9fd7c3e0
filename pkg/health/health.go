// Package health 存活/就绪检查
//
//	/healthz 进程存活即返回200
//	/readyz  服务已标记就绪且所有依赖检查通过才返回200
//
// 依赖检查（数据库、Redis、MQ）在请求时并行执行，每个检查有独立超时。
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc 依赖检查，健康返回nil
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Status 检查结果
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
)

// Report 就绪检查报告
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// OK 是否全部通过
func (r Report) OK() bool {
	return r.Status == StatusOK
}

// Health 管理就绪检查
type Health struct {
	started time.Time
	ready   atomic.Bool

	mu     sync.RWMutex
	checks []check
}

// New 创建Health，初始为未就绪，初始化完成后调用SetReady(true)
func New() *Health {
	return &Health{started: time.Now()}
}

// AddCheck 注册依赖检查
func (h *Health) AddCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check{name: name, timeout: timeout, fn: fn})
}

// SetReady 设置就绪状态，优雅关闭开始时设为false，负载均衡不再转发新请求
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Uptime 进程运行时长
func (h *Health) Uptime() time.Duration {
	return time.Since(h.started)
}

// Check 并行执行所有检查
func (h *Health) Check(ctx context.Context) Report {
	h.mu.RLock()
	checks := make([]check, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	results := make([]string, len(checks))

	// 每个检查的错误写进结果，不通过errgroup返回：一个失败不取消其他检查
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			if err := c.fn(checkCtx); err != nil {
				results[i] = err.Error()
				return nil
			}
			results[i] = StatusOK
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: StatusOK, Checks: make(map[string]string, len(checks)+1)}
	for i, c := range checks {
		report.Checks[c.name] = results[i]
		if results[i] != StatusOK {
			report.Status = StatusUnhealthy
		}
	}
	if !h.ready.Load() {
		report.Checks["_readiness"] = "service is not ready"
		report.Status = StatusUnhealthy
	}
	return report
}
