package xtiming_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/omeyang/xtrack/pkg/observability/xlog"
	"github.com/omeyang/xtrack/pkg/observability/xtiming"

	"github.com/stretchr/testify/require"
)

// fakeDatabase 具备数据库身份的被测目标
type fakeDatabase struct {
	dbName   string
	instName string
}

func (d *fakeDatabase) DatabaseName() string { return d.dbName }
func (d *fakeDatabase) InstanceName() string { return d.instName }

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{dbName: "payin", instName: "payin-replica-1"}
}

// trackedTxn 可跟踪的事务实体，同时具备数据库身份
type trackedTxn struct {
	fakeDatabase
	tracker *xtiming.QueryTimer
	scope   *xtiming.Scope
}

func newTrackedTxn() *trackedTxn {
	return &trackedTxn{fakeDatabase: *newFakeDatabase()}
}

func (x *trackedTxn) Tracker() *xtiming.QueryTimer      { return x.tracker }
func (x *trackedTxn) SetTracker(t *xtiming.QueryTimer)  { x.tracker = t }
func (x *trackedTxn) TrackingScope() *xtiming.Scope     { return x.scope }
func (x *trackedTxn) SetTrackingScope(s *xtiming.Scope) { x.scope = s }

// recordingStats 记录 Timing 调用的 StatsClient
type recordingStats struct {
	mu      sync.Mutex
	timings []recordedTiming
}

type recordedTiming struct {
	name    string
	valueMS float64
	tags    map[string]string
}

func (s *recordingStats) Timing(_ context.Context, name string, valueMS float64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings = append(s.timings, recordedTiming{name: name, valueMS: valueMS, tags: tags})
}

func (s *recordingStats) last(t *testing.T) recordedTiming {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.timings)
	return s.timings[len(s.timings)-1]
}

func (s *recordingStats) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timings)
}

// captureHandler 记录 slog record 的 handler
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) last(t *testing.T) slog.Record {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.records)
	return h.records[len(h.records)-1]
}

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func newCaptureLogger(t *testing.T) (xlog.Logger, *captureHandler) {
	t.Helper()
	h := &captureHandler{}
	logger, err := xlog.New(h, xlog.WithEnrich(false))
	require.NoError(t, err)
	return logger, h
}

// recordAttrs 把 record 顶层属性展开为 map
func recordAttrs(r slog.Record) map[string]slog.Value {
	out := make(map[string]slog.Value, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

// groupAttrs 把 group value 展开为 map
func groupAttrs(t *testing.T, v slog.Value) map[string]slog.Value {
	t.Helper()
	require.Equal(t, slog.KindGroup, v.Kind())
	out := make(map[string]slog.Value)
	for _, a := range v.Group() {
		out[a.Key] = a.Value
	}
	return out
}

// capturedTimers 收集处理器收到的计时器
type capturedTimers struct {
	mu     sync.Mutex
	timers []*xtiming.QueryTimer
}

func (c *capturedTimers) processor(_ context.Context, _ *xtiming.TimingManager, timer *xtiming.QueryTimer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, timer)
}

func (c *capturedTimers) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *capturedTimers) last(t *testing.T) *xtiming.QueryTimer {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.timers)
	return c.timers[len(c.timers)-1]
}
