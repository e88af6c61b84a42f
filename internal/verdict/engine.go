package verdict

import (
	"errors"
	"log/slog"

	"github.com/lox/whattowear/internal/forecast"
	"github.com/lox/whattowear/internal/metrics"
	"github.com/lox/whattowear/internal/models"
)

// Engine runs Compute with logging and metrics for the HTTP and CLI layers.
type Engine struct {
	clock  Clock
	logger *slog.Logger
}

func NewEngine(clock Clock, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{clock: clock, logger: logger}
}

// Verdict computes the verdict for a forecast set.
func (e *Engine) Verdict(set models.ForecastSet, mode Mode) (Verdict, error) {
	v, dropped, err := compute(set.Forecasts, e.clock, mode)

	for _, d := range dropped {
		metrics.RecordsDropped.WithLabelValues(d.Reason).Inc()
		e.logger.Debug("dropped forecast record", "index", d.Index, "value", d.Value, "reason", d.Reason)
	}
	if len(dropped) > 0 {
		e.logger.Warn("forecast records skipped", "dropped", len(dropped), "total", len(set.Forecasts))
	}

	if err != nil {
		outcome := "error"
		if errors.Is(err, forecast.ErrEmptyWindow) {
			outcome = "empty_window"
		}
		metrics.VerdictsTotal.WithLabelValues(string(mode), outcome).Inc()
		e.logger.Warn("verdict failed", "mode", mode, "error", err)
		return Verdict{}, err
	}

	metrics.VerdictsTotal.WithLabelValues(string(mode), "ok").Inc()
	e.logger.Info("verdict computed",
		"mode", mode,
		"top", v.Recommendation.Top,
		"bottom", v.Recommendation.Bottom,
		"jumper", v.Recommendation.WearJumper,
		"date", v.DayContext.Date,
	)
	return v, nil
}
