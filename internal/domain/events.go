package domain

import "time"

// Event types
const (
	EventTypeVaultCreated    = "vault.created"
	EventTypeCoinAdded       = "coin.added"
	EventTypeCoinSplit       = "coin.split"
	EventTypeVaultTransfer   = "vault.transfer"
	EventTypeRewardPrepared  = "reward.prepared"
	EventTypeCurrencyRebased = "currency.rebased"
	EventTypeInviteCreated   = "invite.created"
	EventTypeInviteRevoked   = "invite.revoked"
	EventTypeMemberJoined    = "member.joined"
	EventTypeMemberRemoved   = "member.removed"
)

// Aggregate types
const (
	AggregateTypeVault = "vault"
)

// OutboxEvent represents an event to be published. Events of a vault also
// form its activity log.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewVaultEvent builds an unpublished event for a vault.
func NewVaultEvent(id, vaultID, eventType string, payload map[string]any, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   vaultID,
		AggregateType: AggregateTypeVault,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}

// SplitPayload summarizes a split for the activity log.
func SplitPayload(plan *SplitPlan, actorID string) map[string]any {
	currencies := make([]map[string]any, 0, len(plan.Currencies))
	for _, c := range plan.Currencies {
		currencies = append(currencies, map[string]any{
			"currency_id":   c.CurrencyID,
			"balance":       c.Balance.String(),
			"per_share":     c.PerShare.String(),
			"member_shares": c.MemberShares,
			"treasury":      c.Treasury.String(),
			"remainder":     c.Remainder.String(),
			"unaccounted":   c.Unaccounted.String(),
			"archived":      len(c.ArchivedEntryIDs),
		})
	}
	return map[string]any{
		"split_id":    plan.SplitID,
		"mode":        string(plan.Mode),
		"share_count": plan.ShareCount,
		"policy":      string(plan.Policy),
		"currencies":  currencies,
		"actor_id":    actorID,
	}
}
