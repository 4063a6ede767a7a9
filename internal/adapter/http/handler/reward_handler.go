package handler

import (
	"context"
	"net/http"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/usecase"
)

// RewardService defines the behavior needed by RewardHandler.
type RewardService interface {
	PrepareReward(ctx context.Context, input usecase.PrepareRewardInput) (*usecase.RewardSummary, error)
}

// RewardHandler handles reward preparation.
type RewardHandler struct {
	rewardUC RewardService
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewardUC RewardService) *RewardHandler {
	return &RewardHandler{rewardUC: rewardUC}
}

// Prepare values a reward and, unless dry_run is set, adds it to the vault.
func (h *RewardHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	var req dto.PrepareRewardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.rewardUC.PrepareReward(r.Context(), req.ToUseCaseInput(vaultID(r), actorID(r)))
	if err != nil {
		writeDomainError(w, "failed to prepare reward", err)
		return
	}

	status := http.StatusCreated
	if summary.DryRun {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.RewardFromUseCase(summary))
}
