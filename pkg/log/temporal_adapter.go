package log

import (
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/log"
)

var _ log.Logger = (*TemporalAdapter)(nil)

// TemporalAdapter is a Temporal logger adapter for zerolog
type TemporalAdapter struct {
	logger zerolog.Logger
}

// NewTemporalAdapter creates a new TemporalAdapter
func NewTemporalAdapter(logger zerolog.Logger) *TemporalAdapter {
	return &TemporalAdapter{logger: logger.With().Str("component", "temporal").Logger()}
}

func (t *TemporalAdapter) Debug(msg string, keyvals ...interface{}) {
	t.logger.Debug().Fields(normalize(keyvals)).Msg(msg)
}

func (t *TemporalAdapter) Info(msg string, keyvals ...interface{}) {
	t.logger.Info().Fields(normalize(keyvals)).Msg(msg)
}

func (t *TemporalAdapter) Warn(msg string, keyvals ...interface{}) {
	t.logger.Warn().Fields(normalize(keyvals)).Msg(msg)
}

func (t *TemporalAdapter) Error(msg string, keyvals ...interface{}) {
	t.logger.Error().Fields(normalize(keyvals)).Msg(msg)
}

// With returns a new logger with the given keyvals
func (t *TemporalAdapter) With(keyvals ...interface{}) log.Logger {
	return &TemporalAdapter{logger: t.logger.With().Fields(normalize(keyvals)).Logger()}
}

// normalize pads a dangling key so zerolog does not drop it, and renders
// errors as strings under their key.
func normalize(keyvals []interface{}) []interface{} {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "(MISSING)")
	}
	out := make([]interface{}, len(keyvals))
	copy(out, keyvals)
	for i := 1; i < len(out); i += 2 {
		if err, ok := out[i].(error); ok && err != nil {
			out[i] = err.Error()
		}
	}
	return out
}
