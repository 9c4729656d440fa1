package tracing

import (
	"testing"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDisabledTracerIsSafe(t *testing.T) {
	tracer, err := NewTracer(config.TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	// Without a license key every operation, including shutdown, must be
	// a no-op rather than a panic.
	txn := tracer.StartTransaction("noop")
	require.Nil(t, txn)

	span := tracer.StartSpan("noop-span", txn)
	require.NotNil(t, span)
	span.End()

	tracer.AddAttribute(txn, "key", "value")
	tracer.RecordError(txn, errors.New("ignored"))
	tracer.EndTransaction(txn)
	tracer.Close()
}
