package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var _ trace.SpanExporter = &Collector{}

// Collector keeps every span exported to it. Workers end spans concurrently,
// so exports are serialized.
type Collector struct {
	lk    sync.Mutex
	Spans tracetest.SpanStubs
}

func (c *Collector) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	c.lk.Lock()
	defer c.lk.Unlock()
	c.Spans = append(c.Spans, tracetest.SpanStubsFromReadOnlySpans(spans)...)
	return nil
}

func (c *Collector) Shutdown(ctx context.Context) error {
	return nil
}

func (c *Collector) filter(keep func(tracetest.SpanStub) bool) tracetest.SpanStubs {
	found := tracetest.SpanStubs{}
	for _, s := range c.Spans {
		if keep(s) {
			found = append(found, s)
		}
	}
	return found
}

// FindSpans returns every span with the given name.
func (c *Collector) FindSpans(name string) tracetest.SpanStubs {
	return c.filter(func(s tracetest.SpanStub) bool { return s.Name == name })
}

// FindSpansWithParent returns the direct children of parent.
func (c *Collector) FindSpansWithParent(parent tracetest.SpanStub) tracetest.SpanStubs {
	id := parent.SpanContext.SpanID()
	return c.filter(func(s tracetest.SpanStub) bool { return s.Parent.SpanID() == id })
}

// FindSpansWithAttribute returns the spans carrying key set to the string value.
func (c *Collector) FindSpansWithAttribute(key, value string) tracetest.SpanStubs {
	return c.filter(func(s tracetest.SpanStub) bool {
		for _, attr := range s.Attributes {
			if attr.Key == attribute.Key(key) {
				return attr.Value.AsString() == value
			}
		}
		return false
	})
}

// Outcomes maps driver names to the outcomes recorded on their spans, in
// export order.
func (c *Collector) Outcomes(t *testing.T, name string) map[string][]string {
	t.Helper()

	outcomes := make(map[string][]string)
	for _, s := range c.FindSpans(name) {
		driver := AttributeValueInTraceSpan(t, s, "driver").AsString()
		outcome := AttributeValueInTraceSpan(t, s, "outcome").AsString()
		outcomes[driver] = append(outcomes[driver], outcome)
	}
	return outcomes
}

// SetupTracing installs a global tracer provider exporting synchronously into
// a Collector. The returned func shuts the provider down and hands back the
// collector.
func SetupTracing() func(t *testing.T) *Collector {
	collector := &Collector{}
	tp := trace.NewTracerProvider(trace.WithSyncer(collector))
	otel.SetTracerProvider(tp)

	return func(t *testing.T) *Collector {
		t.Helper()
		require.NoError(t, tp.Shutdown(context.Background()))
		return collector
	}
}

// AttributeValueInTraceSpan returns the value of the named attribute.
func AttributeValueInTraceSpan(t *testing.T, stub tracetest.SpanStub, attributeName string) attribute.Value {
	t.Helper()

	for _, attr := range stub.Attributes {
		if attr.Key == attribute.Key(attributeName) {
			return attr.Value
		}
	}
	require.Failf(t, "missing span attribute", "%s on span %s", attributeName, stub.Name)
	return attribute.Value{}
}

// RecordedError returns the message of the single exception event on stub.
func RecordedError(t *testing.T, stub tracetest.SpanStub) string {
	t.Helper()

	var messages []string
	for _, evt := range stub.Events {
		if evt.Name != "exception" {
			continue
		}
		for _, attr := range evt.Attributes {
			if attr.Key == "exception.message" {
				messages = append(messages, attr.Value.AsString())
			}
		}
	}
	require.Len(t, messages, 1, "exception events on span %s", stub.Name)
	return messages[0]
}
