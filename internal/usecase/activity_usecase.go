package usecase

import (
	"context"

	"github.com/iho/partytreasury/internal/domain"
)

// ActivityUseCase reads the activity log of a vault.
type ActivityUseCase struct {
	outboxRepo OutboxRepository
}

// NewActivityUseCase creates a new ActivityUseCase.
func NewActivityUseCase(outboxRepo OutboxRepository) *ActivityUseCase {
	return &ActivityUseCase{
		outboxRepo: outboxRepo,
	}
}

// ListActivity lists the events recorded for a vault, newest first.
func (uc *ActivityUseCase) ListActivity(ctx context.Context, vaultID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeVault, vaultID, limit, offset)
}
