package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	tool := NewCurrentTime()
	registry.Register(tool)

	got, ok := registry.Get("current_time")
	require.True(t, ok)
	assert.Equal(t, tool.Name(), got.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistryListPreservesOrder(t *testing.T) {
	registry := NewRegistry(NewCurrentTime())
	registry.Register(NewCurrentTime()) // re-registration must not duplicate

	list := registry.List()
	require.Len(t, list, 1)
	assert.Equal(t, "current_time", list[0].Name())
}

func TestCurrentTimeExecute(t *testing.T) {
	tool := NewCurrentTime()
	fixed := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	tool.now = func() time.Time { return fixed }

	out, err := tool.Execute(context.Background(), `{"timezone":"UTC"}`)
	require.NoError(t, err)
	assert.Equal(t, fixed.Format(time.RFC1123), out)
}

func TestCurrentTimeDefaultsToUTC(t *testing.T) {
	tool := NewCurrentTime()

	_, err := tool.Execute(context.Background(), "")
	assert.NoError(t, err)
}

func TestCurrentTimeRejectsUnknownTimezone(t *testing.T) {
	tool := NewCurrentTime()

	_, err := tool.Execute(context.Background(), `{"timezone":"Nowhere/Null"}`)
	assert.Error(t, err)
}
