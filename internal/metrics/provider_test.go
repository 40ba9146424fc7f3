package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Scrape(t *testing.T) {
	provider, err := NewProvider("envkeys_scrape")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	counter, err := provider.MeterProvider().Meter("test").Int64Counter("probe_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	output := scrape(t, provider)

	assert.Contains(t, output, "go_goroutines")
	assert.Contains(t, output, "go_build_info")
	assert.Contains(t, output, "probe_total")
	assert.Contains(t, output, `service_name="envkeys_scrape"`)
}

func TestProvider_RegistriesAreIsolated(t *testing.T) {
	first, err := NewProvider("first")
	require.NoError(t, err)
	second, err := NewProvider("second")
	require.NoError(t, err)

	counter, err := first.MeterProvider().Meter("test").Int64Counter("only_first_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.Contains(t, scrape(t, first), "only_first_total")
	assert.NotContains(t, scrape(t, second), "only_first_total")
}

func TestProvider_Shutdown(t *testing.T) {
	provider, err := NewProvider("envkeys_shutdown")
	require.NoError(t, err)
	assert.NoError(t, provider.Shutdown(context.Background()))

	var zero *Provider
	assert.NoError(t, zero.Shutdown(context.Background()))
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}
