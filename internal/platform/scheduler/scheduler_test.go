package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/platform/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := scheduler.New(time.UTC, nil, 0)
	err := s.Add("not a schedule", "sweep", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestRunNowAppliesTimeoutAndSurvivesFailures(t *testing.T) {
	s := scheduler.New(time.UTC, nil, 50*time.Millisecond)

	var sawDeadline atomic.Bool
	s.RunNow("sweep", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		return errors.New("partial failure")
	})
	assert.True(t, sawDeadline.Load())

	assert.NotPanics(t, func() {
		s.RunNow("sweep", func(context.Context) error { panic("boom") })
	})
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(time.UTC, nil, 0)
	require.NoError(t, s.Add("0 8 * * *", "sweep", func(context.Context) error { return nil }))
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
