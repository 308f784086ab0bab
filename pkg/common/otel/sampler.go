package otel

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// endpointExcluder drops spans for noisy routes and samples everything else
// with a parent-based ratio sampler.
type endpointExcluder struct {
	excluded map[string]struct{}
	fallback sdktrace.Sampler
}

func newEndpointExcluder(excluded map[string]struct{}, probability float64) sdktrace.Sampler {
	if probability <= 0 || probability > 1 {
		probability = 1
	}
	return endpointExcluder{
		excluded: excluded,
		fallback: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(probability)),
	}
}

// ShouldSample implements sdktrace.Sampler. A span is dropped when either its
// name or its url.path attribute names an excluded route.
func (e endpointExcluder) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if e.isExcluded(p) {
		return sdktrace.SamplingResult{
			Decision:   sdktrace.Drop,
			Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
		}
	}
	return e.fallback.ShouldSample(p)
}

func (e endpointExcluder) isExcluded(p sdktrace.SamplingParameters) bool {
	if len(e.excluded) == 0 {
		return false
	}
	if _, ok := e.excluded[p.Name]; ok {
		return true
	}
	for _, attr := range p.Attributes {
		if attr.Key != "url.path" && attr.Key != "http.target" {
			continue
		}
		if _, ok := e.excluded[attr.Value.AsString()]; ok {
			return true
		}
	}
	return false
}

// Description implements sdktrace.Sampler.
func (e endpointExcluder) Description() string {
	return "EndpointExcluder{" + e.fallback.Description() + "}"
}
