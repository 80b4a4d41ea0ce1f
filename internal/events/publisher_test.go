package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFactories(t *testing.T) {
	scored := NewResponseScoredEvent(7, 3, 1.5, false)
	assert.Equal(t, EventResponseScored, scored.Type)
	assert.Equal(t, "quiz-scoring-service", scored.Source)
	assert.Equal(t, "1.0", scored.Version)
	_, err := uuid.Parse(scored.ID)
	assert.NoError(t, err)
	assert.False(t, scored.Timestamp.IsZero())

	payload := SessionScoredEvent{SessionID: 7, QuizID: 2, TotalScore: 3, MaxScore: 4, Percentage: 75, Passed: true}
	completed := NewSessionCompletedEvent(payload)
	regraded := NewSessionRegradedEvent(payload)
	assert.Equal(t, EventSessionCompleted, completed.Type)
	assert.Equal(t, EventSessionRegraded, regraded.Type)
	assert.NotEqual(t, completed.ID, regraded.ID)
}

func TestEventEnvelopeJSON(t *testing.T) {
	event := NewSessionCompletedEvent(SessionScoredEvent{SessionID: 1, QuizID: 9, TotalScore: 2, MaxScore: 2, Percentage: 100, Passed: true})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"id", "type", "timestamp", "source", "version", "data"} {
		assert.Contains(t, decoded, key)
	}
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, float64(9), data["quiz_id"])
	assert.Equal(t, true, data["passed"])
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = publisher.Publish(ctx, NewResponseScoredEvent(1, uint(i), 1, true))
		}(i)
	}
	wg.Wait()
	require.NoError(t, publisher.Publish(ctx, NewSessionExpiredEvent(1, 1, time.Now())))

	assert.Len(t, publisher.GetPublishedEvents(), 21)
	assert.Len(t, publisher.EventsOfType(EventResponseScored), 20)
	assert.Len(t, publisher.EventsOfType(EventSessionExpired), 1)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}
