package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	db generated.DBTX
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(db generated.DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberSelect = `
	SELECT m.vault_id, m.user_id, m.permission_id, u.email, u.name, m.joined_at
	FROM members m
	JOIN users u ON u.id = m.user_id
`

// Add inserts a membership.
func (r *MemberRepository) Add(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	query := `
		INSERT INTO members (vault_id, user_id, permission_id, joined_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		member.VaultID,
		member.UserID,
		member.PermissionID,
		member.JoinedAt,
	)
	if err != nil {
		return uniqueOr("add member", err, domain.ErrAlreadyMember)
	}

	return nil
}

// Get retrieves one membership.
func (r *MemberRepository) Get(ctx context.Context, vaultID, userID string) (*domain.Member, error) {
	query := memberSelect + `WHERE m.vault_id = $1 AND m.user_id = $2`

	member, err := scanMember(r.db.QueryRow(ctx, query, vaultID, userID))
	if err != nil {
		return nil, notFound("get member", err, domain.ErrMemberNotFound)
	}

	return member, nil
}

// ListByVault returns members in join order.
func (r *MemberRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Member, error) {
	query := memberSelect + `WHERE m.vault_id = $1 ORDER BY m.joined_at, m.user_id`

	rows, err := r.db.Query(ctx, query, vaultID)
	if err != nil {
		return nil, storeErr("list members", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, storeErr("list members", err)
		}
		members = append(members, member)
	}

	return members, storeErr("list members", rows.Err())
}

// UpdatePermission reassigns a member's permission.
func (r *MemberRepository) UpdatePermission(ctx context.Context, vaultID, userID, permissionID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE members SET permission_id = $3 WHERE vault_id = $1 AND user_id = $2`,
		vaultID, userID, permissionID,
	)
	if err != nil {
		return storeErr("update member permission", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// Remove deletes a membership.
func (r *MemberRepository) Remove(ctx context.Context, tx usecase.Transaction, vaultID, userID string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx,
		`DELETE FROM members WHERE vault_id = $1 AND user_id = $2`,
		vaultID, userID,
	)
	if err != nil {
		return storeErr("remove member", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(&m.VaultID, &m.UserID, &m.PermissionID, &m.Email, &m.Name, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
