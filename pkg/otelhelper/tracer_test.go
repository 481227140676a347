package otelhelper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan_NoopProvider(t *testing.T) {
	t.Parallel()

	ctx, span := StartSpan(context.Background(), Tracer("test"), "presets.list",
		attribute.String(WorkflowIDKey, "wf-1"),
	)
	defer span.End()

	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		SetError(span, errors.New("boom"), attribute.String(OperationKey, "list"))
	})
}
