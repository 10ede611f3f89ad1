package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProfileTypes(t *testing.T) {
	types, err := resolveProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace}, types)

	types, err = resolveProfileTypes([]string{"cpu", "mutex"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration}, types)

	_, err = resolveProfileTypes([]string{"heap"})
	assert.Error(t, err)
}

func TestNewProfiler(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())

	_, err = NewProfiler(ProfilerConfig{Enabled: true}, nil)
	assert.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "ledger", ProfileTypes: []string{"nope"}}, nil)
	assert.Error(t, err)
}

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, 5, positiveOr(0, 5))
	assert.Equal(t, 3, positiveOr(3, 5))
}

func TestWithProfilingLabels(t *testing.T) {
	var route, tenant string
	WithProfilingLabels(t.Context(), map[string]string{
		ProfilingLabelRoute:    "/api/v1/payments",
		ProfilingLabelTenantID: "t-1",
	}, func(ctx context.Context) {
		route, _ = pprof.Label(ctx, ProfilingLabelRoute)
		tenant, _ = pprof.Label(ctx, ProfilingLabelTenantID)
	})
	assert.Equal(t, "/api/v1/payments", route)
	assert.Equal(t, "t-1", tenant)

	called := false
	WithProfilingLabels(t.Context(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}
