package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpanel/internal/config"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) Load(context.Context) error {
	l.calls.Add(1)
	return l.err
}

type countingReporter struct {
	calls atomic.Int32
	last  atomic.Value
}

func (r *countingReporter) Run(_ context.Context, now time.Time) error {
	r.calls.Add(1)
	r.last.Store(now)
	return nil
}

func TestNewScheduler_BadTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{Timezone: "Nowhere/Land"}, &countingLoader{}, nil, nil)
	assert.Error(t, err)
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{ResyncSchedule: "every now and then", CronSchedule: "0 20 * * *", Timezone: "UTC"}, &countingLoader{}, nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
}

func TestScheduler_RegistersJobs(t *testing.T) {
	cfg := config.ReportingConfig{ResyncSchedule: "*/5 * * * *", CronSchedule: "0 20 * * *", Timezone: "UTC"}

	withReport, err := NewScheduler(cfg, &countingLoader{}, &countingReporter{}, nil)
	require.NoError(t, err)
	require.NoError(t, withReport.Start())
	t.Cleanup(withReport.Stop)
	assert.Equal(t, 2, withReport.Entries())

	resyncOnly, err := NewScheduler(cfg, &countingLoader{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, resyncOnly.Start())
	t.Cleanup(resyncOnly.Stop)
	assert.Equal(t, 1, resyncOnly.Entries())
}

func TestScheduler_JobsCallDependencies(t *testing.T) {
	loader := &countingLoader{err: errors.New("backend down")}
	reporter := &countingReporter{}
	fixed := time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC)

	s, err := NewScheduler(config.ReportingConfig{Timezone: "UTC"}, loader, reporter, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return fixed }

	s.resync()
	s.report()

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, int32(1), reporter.calls.Load())
	assert.Equal(t, fixed, reporter.last.Load())
}
