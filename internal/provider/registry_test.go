package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline-io/frostline/internal/config"
	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/providers/memory"
)

func TestRegistry_BuiltinMemory(t *testing.T) {
	r := NewRegistry()
	client, err := r.Load("memory", config.Default())
	require.NoError(t, err)
	assert.IsType(t, &memory.Provider{}, client)
}

func TestRegistry_BuiltinSnowflakeNeedsCredentials(t *testing.T) {
	r := NewRegistry()
	cfg := config.Default()
	_, err := r.Load("snowflake", cfg)
	require.Error(t, err, "no account or token configured")
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Load("terraform", config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRegistry_MemoizesClients(t *testing.T) {
	r := NewRegistry()
	builds := 0
	r.Register("counted", func(*config.Config) (platform.Client, error) {
		builds++
		return memory.New(), nil
	})

	first, err := r.Load("counted", config.Default())
	require.NoError(t, err)
	second, err := r.Load("counted", config.Default())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestRegistry_FactoryErrorNotCached(t *testing.T) {
	r := NewRegistry()
	attempts := 0
	r.Register("flaky", func(*config.Config) (platform.Client, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("credentials not ready")
		}
		return memory.New(), nil
	})

	_, err := r.Load("flaky", config.Default())
	require.Error(t, err)

	client, err := r.Load("flaky", config.Default())
	require.NoError(t, err)
	assert.NotNil(t, client)
}
