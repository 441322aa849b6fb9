package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/Aidin1998/algohost/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/Aidin1998/algohost/internal/invoke"

// Dispatcher selects an implementation for a request and runs it.
type Dispatcher struct {
	manifest *manifest.Manifest
	registry *Registry
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewDispatcher binds a manifest to a registry. Implementations declared in
// the manifest but missing from the registry are logged; requesting one
// fails with a server error.
func NewDispatcher(logger *zap.Logger, m *manifest.Manifest, registry *Registry) *Dispatcher {
	d := &Dispatcher{
		manifest: m,
		registry: registry,
		logger:   logger.Named("invoke"),
		tracer:   otel.Tracer(tracerName),
	}
	for _, id := range m.ImplementationIDs() {
		if _, ok := registry.Lookup(id); !ok {
			d.logger.Warn("Implementation declared but not registered", zap.String("impl", id))
		}
	}
	return d
}

// Invoke runs the implementation selected by body's impl_id with the
// remaining fields as arguments.
func (d *Dispatcher) Invoke(ctx context.Context, body map[string]any) (any, error) {
	implID, err := d.selectImplementation(body)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues("unknown", metrics.OutcomeInvalidArgument).Inc()
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, "invoke "+implID, trace.WithAttributes(
		attribute.String("algohost.service", d.manifest.ServiceName),
		attribute.String("algohost.impl_id", implID),
	))
	defer span.End()

	start := time.Now()
	result, err := d.call(ctx, implID, body)
	metrics.InvocationDuration.WithLabelValues(implID).Observe(time.Since(start).Seconds())

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case IsInvalidArgument(err):
		outcome = metrics.OutcomeInvalidArgument
		span.SetStatus(codes.Error, err.Error())
		d.logger.Debug("Invocation rejected", zap.String("impl", implID), zap.Error(err))
	default:
		outcome = metrics.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("Invocation failed", zap.String("impl", implID), zap.Error(err))
	}
	metrics.InvocationsTotal.WithLabelValues(implID, outcome).Inc()
	return result, err
}

func (d *Dispatcher) selectImplementation(body map[string]any) (string, error) {
	raw, present := body[manifest.ImplIDKey]
	if !present || raw == nil {
		if len(d.manifest.Implementations) == 1 {
			return d.manifest.Implementations[0].ID, nil
		}
		return "", InvalidArgumentf("missing %s", manifest.ImplIDKey)
	}

	id, err := normalizeID(raw)
	if err != nil {
		return "", err
	}
	if _, ok := d.manifest.Implementation(id); !ok {
		return "", InvalidArgumentf("unknown implementation %q", id)
	}
	return id, nil
}

func (d *Dispatcher) call(ctx context.Context, implID string, body map[string]any) (result any, err error) {
	fn, ok := d.registry.Lookup(implID)
	if !ok {
		return nil, fmt.Errorf("implementation %q is not available", implID)
	}

	args, err := bindArgs(d.manifest, body)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &PanicError{Value: r}
		}
	}()
	return fn(ctx, args)
}

// normalizeID accepts impl_id as a string or a JSON number.
func normalizeID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(id), nil
	}
	return "", InvalidArgumentf("%s must be a string or a number, got %s", manifest.ImplIDKey, jsonKind(v))
}
