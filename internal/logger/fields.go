package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by every component.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldRetries   = "ai_retry_attempts"
	FieldRunID     = "run_id"
	FieldCandidate = "candidate_id"
	FieldStage     = "stage"
)

// stringFields turns key/value pairs into string fields. Pairs with a blank key or
// value are dropped and both sides are trimmed.
func stringFields(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// WithFields attaches fields to logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// GeneratorFields describe the generative service behind a logger.
func GeneratorFields(provider, model string, retries int) []zap.Field {
	fields := stringFields(FieldProvider, provider, FieldModel, model)
	if retries > 0 {
		fields = append(fields, zap.Int(FieldRetries, retries))
	}
	return fields
}

// ForGenerator returns a logger tagged with the provider, model and retry budget.
func ForGenerator(logger *zap.Logger, provider, model string, retries int) *zap.Logger {
	return WithFields(logger, GeneratorFields(provider, model, retries)...)
}

// RunFields tie entries to one pipeline run.
func RunFields(runID, candidateID string) []zap.Field {
	return stringFields(FieldRunID, runID, FieldCandidate, candidateID)
}

// ForRun returns a logger tagged with the run and candidate ids.
func ForRun(logger *zap.Logger, runID, candidateID string) *zap.Logger {
	return WithFields(logger, RunFields(runID, candidateID)...)
}

// ForStage returns a logger tagged with a pipeline stage.
func ForStage(logger *zap.Logger, stage string) *zap.Logger {
	return WithFields(logger, stringFields(FieldStage, stage)...)
}
