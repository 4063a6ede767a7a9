package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/partytreasury/internal/domain"
)

// InviteUseCase handles vault invites.
type InviteUseCase struct {
	txManager      TransactionManager
	vaultRepo      VaultRepository
	memberRepo     MemberRepository
	permissionRepo PermissionRepository
	inviteRepo     InviteRepository
	userRepo       UserRepository
	outboxRepo     OutboxRepository
	tokens         InviteTokens
	idGen          IDGenerator
	ttl            time.Duration
	now            func() time.Time
}

// InviteUseCaseConfig holds the dependencies of InviteUseCase.
type InviteUseCaseConfig struct {
	TxManager      TransactionManager
	VaultRepo      VaultRepository
	MemberRepo     MemberRepository
	PermissionRepo PermissionRepository
	InviteRepo     InviteRepository
	UserRepo       UserRepository
	OutboxRepo     OutboxRepository
	Tokens         InviteTokens
	IDGen          IDGenerator
	TTL            time.Duration
	Now            func() time.Time
}

// NewInviteUseCase creates a new InviteUseCase.
func NewInviteUseCase(cfg InviteUseCaseConfig) *InviteUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultInviteTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &InviteUseCase{
		txManager:      cfg.TxManager,
		vaultRepo:      cfg.VaultRepo,
		memberRepo:     cfg.MemberRepo,
		permissionRepo: cfg.PermissionRepo,
		inviteRepo:     cfg.InviteRepo,
		userRepo:       cfg.UserRepo,
		outboxRepo:     cfg.OutboxRepo,
		tokens:         cfg.Tokens,
		idGen:          cfg.IDGen,
		ttl:            cfg.TTL,
		now:            cfg.Now,
	}
}

// CreateInviteInput represents input for inviting someone to a vault.
type CreateInviteInput struct {
	VaultID      string
	Email        string
	PermissionID string
	CreatedBy    string
}

// InviteLink is a stored invite and its signed token.
type InviteLink struct {
	Invite *domain.Invite
	Token  string
}

// CreateInvite stores a pending invite and signs a token for it.
func (uc *InviteUseCase) CreateInvite(ctx context.Context, input CreateInviteInput) (*InviteLink, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if _, err := uc.vaultRepo.GetByID(ctx, input.VaultID); err != nil {
		return nil, err
	}

	if input.PermissionID != "" {
		permission, err := uc.permissionRepo.GetByID(ctx, input.PermissionID)
		if err != nil {
			return nil, err
		}
		if permission.VaultID != input.VaultID {
			return nil, domain.ErrPermissionNotFound
		}
	}

	now := uc.now().UTC()
	invite := &domain.Invite{
		ID:           uc.idGen.Generate(),
		VaultID:      input.VaultID,
		Email:        domain.NormalizeEmail(input.Email),
		PermissionID: input.PermissionID,
		Status:       domain.InviteStatusPending,
		ExpiresAt:    now.Add(uc.ttl),
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
	}

	token, err := uc.tokens.Sign(domain.InvitePayload{
		InviteID:     invite.ID,
		VaultID:      invite.VaultID,
		Email:        invite.Email,
		PermissionID: invite.PermissionID,
		Exp:          invite.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.inviteRepo.Create(ctx, tx, invite); err != nil {
		return nil, err
	}

	// The token travels with the event so a mailer can deliver it.
	event := domain.NewVaultEvent(uc.idGen.Generate(), invite.VaultID, domain.EventTypeInviteCreated, map[string]any{
		"invite_id":  invite.ID,
		"email":      invite.Email,
		"expires_at": invite.ExpiresAt.Format(time.RFC3339),
		"token":      token,
		"actor_id":   input.CreatedBy,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &InviteLink{Invite: invite, Token: token}, nil
}

// InspectInvite verifies a token without touching storage.
func (uc *InviteUseCase) InspectInvite(token string) domain.InviteVerification {
	return uc.tokens.Verify(token)
}

// AcceptInviteInput represents input for accepting an invite.
type AcceptInviteInput struct {
	Token  string
	UserID string
}

// AcceptInvite adds the user to the invited vault.
func (uc *InviteUseCase) AcceptInvite(ctx context.Context, input AcceptInviteInput) (*domain.Member, error) {
	res := uc.tokens.Verify(input.Token)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, res.Error)
	}
	payload := res.Data
	if payload.InviteID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, domain.InviteErrIncomplete)
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeEmail(user.Email) != domain.NormalizeEmail(payload.Email) {
		return nil, domain.ErrInviteEmailMismatch
	}

	if _, err := uc.memberRepo.Get(ctx, payload.VaultID, user.ID); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	invite, err := uc.inviteRepo.GetByIDForUpdate(ctx, tx, payload.InviteID)
	if err != nil {
		return nil, err
	}
	if invite.VaultID != payload.VaultID {
		return nil, domain.ErrInviteNotFound
	}
	if invite.Status != domain.InviteStatusPending {
		return nil, domain.ErrInviteNotPending
	}

	now := uc.now().UTC()
	if invite.IsExpired(now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, domain.InviteErrExpired)
	}

	permissionID := invite.PermissionID
	if permissionID == "" {
		permission, err := uc.permissionRepo.GetByName(ctx, invite.VaultID, domain.DefaultPermissionName)
		if err != nil {
			return nil, err
		}
		permissionID = permission.ID
	}

	member := &domain.Member{
		VaultID:      invite.VaultID,
		UserID:       user.ID,
		PermissionID: permissionID,
		Email:        user.Email,
		Name:         user.Name,
		JoinedAt:     now,
	}
	if err := uc.memberRepo.Add(ctx, tx, member); err != nil {
		return nil, err
	}

	if err := uc.inviteRepo.UpdateStatus(ctx, tx, invite.ID, domain.InviteStatusAccepted, now); err != nil {
		return nil, err
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), invite.VaultID, domain.EventTypeMemberJoined, map[string]any{
		"user_id":   user.ID,
		"invite_id": invite.ID,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return member, nil
}

// RevokeInvite cancels a pending invite.
func (uc *InviteUseCase) RevokeInvite(ctx context.Context, vaultID, inviteID, actorID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	invite, err := uc.inviteRepo.GetByIDForUpdate(ctx, tx, inviteID)
	if err != nil {
		return err
	}
	if invite.VaultID != vaultID {
		return domain.ErrInviteNotFound
	}
	if invite.Status != domain.InviteStatusPending {
		return domain.ErrInviteNotPending
	}

	now := uc.now().UTC()
	if err := uc.inviteRepo.UpdateStatus(ctx, tx, invite.ID, domain.InviteStatusRevoked, now); err != nil {
		return err
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), vaultID, domain.EventTypeInviteRevoked, map[string]any{
		"invite_id": invite.ID,
		"actor_id":  actorID,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListInvites lists the invites of a vault.
func (uc *InviteUseCase) ListInvites(ctx context.Context, vaultID string) ([]*domain.Invite, error) {
	return uc.inviteRepo.ListByVault(ctx, vaultID)
}
