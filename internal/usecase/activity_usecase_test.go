package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
	"github.com/iho/partytreasury/internal/usecase/gomocks"
)

func TestActivityUseCase_ListActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := gomocks.NewMockOutboxRepository(ctrl)

	events := []*domain.OutboxEvent{
		domain.NewVaultEvent("evt-2", "v1", domain.EventTypeCoinSplit, nil, time.Now()),
		domain.NewVaultEvent("evt-1", "v1", domain.EventTypeCoinAdded, nil, time.Now()),
	}
	outbox.EXPECT().
		GetByAggregate(gomock.Any(), domain.AggregateTypeVault, "v1", 20, 0).
		Return(events, nil)

	uc := usecase.NewActivityUseCase(outbox)
	got, err := uc.ListActivity(context.Background(), "v1", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestActivityUseCase_ListActivity_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := gomocks.NewMockOutboxRepository(ctrl)

	storeErr := domain.NewStoreError("list events", errors.New("conn reset"))
	outbox.EXPECT().
		GetByAggregate(gomock.Any(), domain.AggregateTypeVault, "v1", 100, 40).
		Return(nil, storeErr)

	uc := usecase.NewActivityUseCase(outbox)
	_, err := uc.ListActivity(context.Background(), "v1", 500, 40)
	assert.ErrorIs(t, err, domain.ErrStore)
}
