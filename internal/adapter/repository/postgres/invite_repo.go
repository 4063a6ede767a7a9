package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// InviteRepository implements usecase.InviteRepository.
type InviteRepository struct {
	db generated.DBTX
}

// NewInviteRepository creates a new InviteRepository.
func NewInviteRepository(db generated.DBTX) *InviteRepository {
	return &InviteRepository{db: db}
}

const inviteSelect = `
	SELECT id, vault_id, email, permission_id, status, expires_at, created_by, created_at, accepted_at
	FROM invites
`

// Create inserts an invite.
func (r *InviteRepository) Create(ctx context.Context, tx usecase.Transaction, invite *domain.Invite) error {
	query := `
		INSERT INTO invites (id, vault_id, email, permission_id, status, expires_at, created_by, created_at, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		invite.ID,
		invite.VaultID,
		invite.Email,
		invite.PermissionID,
		string(invite.Status),
		invite.ExpiresAt,
		invite.CreatedBy,
		invite.CreatedAt,
		ptrToPgTimestamptz(invite.AcceptedAt),
	)

	return storeErr("create invite", err)
}

// GetByID retrieves an invite by ID.
func (r *InviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	invite, err := scanInvite(r.db.QueryRow(ctx, inviteSelect+`WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get invite", err, domain.ErrInviteNotFound)
	}

	return invite, nil
}

// GetByIDForUpdate retrieves an invite by ID with a FOR UPDATE lock.
func (r *InviteRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invite, error) {
	invite, err := scanInvite(tx.(*Tx).PgxTx().QueryRow(ctx, inviteSelect+`WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound("lock invite", err, domain.ErrInviteNotFound)
	}

	return invite, nil
}

// UpdateStatus moves an invite to status. Accepting also stamps accepted_at.
func (r *InviteRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InviteStatus, at time.Time) error {
	var acceptedAt pgtype.Timestamptz
	if status == domain.InviteStatusAccepted {
		acceptedAt = timeToPgTimestamptz(at)
	}

	tag, err := tx.(*Tx).PgxTx().Exec(ctx,
		`UPDATE invites SET status = $2, accepted_at = COALESCE($3, accepted_at) WHERE id = $1`,
		id, string(status), acceptedAt,
	)
	if err != nil {
		return storeErr("update invite status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}

	return nil
}

// ListByVault lists a vault's invites, newest first.
func (r *InviteRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Invite, error) {
	rows, err := r.db.Query(ctx, inviteSelect+`WHERE vault_id = $1 ORDER BY created_at DESC, id`, vaultID)
	if err != nil {
		return nil, storeErr("list invites", err)
	}
	defer rows.Close()

	var invites []*domain.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, storeErr("list invites", err)
		}
		invites = append(invites, invite)
	}

	return invites, storeErr("list invites", rows.Err())
}

func scanInvite(row pgx.Row) (*domain.Invite, error) {
	var (
		inv        domain.Invite
		status     string
		acceptedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&inv.ID,
		&inv.VaultID,
		&inv.Email,
		&inv.PermissionID,
		&status,
		&inv.ExpiresAt,
		&inv.CreatedBy,
		&inv.CreatedAt,
		&acceptedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = domain.InviteStatus(status)
	inv.AcceptedAt = pgTimestamptzToPtr(acceptedAt)
	return &inv, nil
}
