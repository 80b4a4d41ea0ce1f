package scoring

import (
	"context"
	"fmt"
	"log/slog"
)

// Observer receives notable events from the engine. Implementations must be
// safe for concurrent use when the engine is shared.
type Observer interface {
	ParseFailed(h Header, reason string)
	MisconfiguredQuestion(h Header, reason string)
	Recovered(h Header, value any)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ParseFailed(Header, string)           {}
func (NopObserver) MisconfiguredQuestion(Header, string) {}
func (NopObserver) Recovered(Header, any)                {}

// SlogObserver reports engine events through slog.
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger.With("component", "scoring_engine")}
}

func (o *SlogObserver) ParseFailed(h Header, reason string) {
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "Answer payload rejected",
		slog.Uint64("question_id", uint64(h.QuestionID)),
		slog.String("question_type", string(h.Type)),
		slog.String("reason", reason),
	)
}

func (o *SlogObserver) MisconfiguredQuestion(h Header, reason string) {
	o.logger.LogAttrs(context.Background(), slog.LevelWarn, "Question cannot be scored",
		slog.Uint64("question_id", uint64(h.QuestionID)),
		slog.String("question_type", string(h.Type)),
		slog.String("reason", reason),
	)
}

func (o *SlogObserver) Recovered(h Header, value any) {
	o.logger.LogAttrs(context.Background(), slog.LevelError, "Scoring panicked, score set to 0",
		slog.Uint64("question_id", uint64(h.QuestionID)),
		slog.String("question_type", string(h.Type)),
		slog.String("panic", fmt.Sprint(value)),
	)
}
