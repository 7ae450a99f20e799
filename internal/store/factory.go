package store

import (
	"encoding/json"
	"fmt"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Factory creates stores from a JSON provider configuration.
type Factory struct {
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
}

func NewFactory(logger *zap.Logger, tel *telemetry.Telemetry) *Factory {
	return &Factory{
		logger:    logger.Named("factory"),
		telemetry: tel,
	}
}

func (f *Factory) CreateStore(configJSON string) (Store, error) {
	var config StoreConfig
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		return nil, fmt.Errorf("failed to parse store configuration JSON: %w", err)
	}

	f.logger.Info("creating store",
		zap.String("db_type", config.DbType.String()),
		zap.Any("extra_details", config.ExtraDetails))

	if !config.DbType.IsValid() {
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}

	var telemetryMeter metric.Meter
	if f.telemetry != nil {
		telemetryMeter = f.telemetry.Meter
	}

	switch config.DbType {
	case DbTypePostgres:
		return NewPostgresStore(config, f.logger, telemetryMeter)
	case DbTypeMemory:
		f.logger.Info("using in-memory store")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}
}
