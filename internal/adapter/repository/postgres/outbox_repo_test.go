package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	pool := newMockPool(t)
	created := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published"}
	pool.ExpectQuery("WHERE NOT published").
		WithArgs(int32(100)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("ev1", "v1", "vault", "coin.split", []byte(`{"split_id":"s1"}`), created, nil, false))

	events, err := NewOutboxRepository(pool).GetUnpublished(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Payload["split_id"] != "s1" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", events)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	pool := newMockPool(t)
	at := time.Date(2024, 2, 2, 1, 0, 0, 0, time.UTC)
	pool.ExpectExec("UPDATE outbox_events SET published").
		WithArgs("ev1", timeToPgTimestamptz(at)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := NewOutboxRepository(pool).MarkPublished(context.Background(), "ev1", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}
