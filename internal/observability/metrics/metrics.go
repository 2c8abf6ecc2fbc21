package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	postings     metric.Int64Counter
	ledgerLines  metric.Int64Counter
	transferLegs metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "foliopost"
	}
	meter := provider.Meter(name)

	postings, err := meter.Int64Counter("foliopost_postings_total")
	if err != nil {
		return nil, err
	}
	ledgerLines, err := meter.Int64Counter("foliopost_ledger_lines_total")
	if err != nil {
		return nil, err
	}
	transferLegs, err := meter.Int64Counter("foliopost_transfer_legs_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		postings:     postings,
		ledgerLines:  ledgerLines,
		transferLegs: transferLegs,
	}, nil
}

// RecordPosting counts one per-target submission outcome.
func (m *Metrics) RecordPosting(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.postings.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", strings.TrimSpace(outcome))))
}

// RecordLedgerLines counts lines included in built transactions.
func (m *Metrics) RecordLedgerLines(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ledgerLines.Add(ctx, int64(count))
}

// RecordTransferLeg counts one transfer leg outcome.
func (m *Metrics) RecordTransferLeg(ctx context.Context, leg, outcome string) {
	if m == nil {
		return
	}
	m.transferLegs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("leg", strings.TrimSpace(leg)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
