package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNewResource(t *testing.T) {
	res := newResource(Config{
		ServiceName:    "employee-hub",
		ServiceVersion: "1.2.3",
		ResourceAttributes: map[string]string{
			"deployment.environment": "staging",
			"service.name":           "impostor",
		},
	})

	set := res.Set()

	env, ok := set.Value(attribute.Key("deployment.environment"))
	require.True(t, ok, "resource attributes are attached")
	assert.Equal(t, "staging", env.AsString())

	name, ok := set.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "employee-hub", name.AsString(), "service identity wins over resource attributes")

	version, ok := set.Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version.AsString())
	assert.Equal(t, semconv.SchemaURL, res.SchemaURL())
}

func TestNewResource_NoVersion(t *testing.T) {
	res := newResource(Config{ServiceName: "employee-hub"})

	_, ok := res.Set().Value(semconv.ServiceVersionKey)
	assert.False(t, ok)
	assert.Equal(t, 1, res.Len())
}
