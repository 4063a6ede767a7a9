package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/adapter/http/middleware"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// VaultService defines the behavior needed by VaultHandler.
type VaultService interface {
	CreateVault(ctx context.Context, input usecase.CreateVaultInput) (*domain.Vault, error)
	ListVaults(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error)
	UpdateVault(ctx context.Context, input usecase.UpdateVaultInput) (*domain.Vault, error)
	ListMembers(ctx context.Context, vaultID string) ([]*domain.Member, error)
	UpdateMemberPermission(ctx context.Context, vaultID, userID, permissionID string) error
	RemoveMember(ctx context.Context, vaultID, userID, actorID string) error
	CreatePermission(ctx context.Context, input usecase.CreatePermissionInput) (*domain.Permission, error)
	ListPermissions(ctx context.Context, vaultID string) ([]*domain.Permission, error)
}

// VaultHandler handles vault, member and permission requests.
type VaultHandler struct {
	vaultUC VaultService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(vaultUC VaultService) *VaultHandler {
	return &VaultHandler{vaultUC: vaultUC}
}

// Create creates a vault owned by the caller.
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVaultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid vault", err)
		return
	}

	vault, err := h.vaultUC.CreateVault(r.Context(), req.ToUseCaseInput(actorID(r)))
	if err != nil {
		writeDomainError(w, "failed to create vault", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VaultFromDomain(vault))
}

// List lists the vaults the caller belongs to.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	vaults, err := h.vaultUC.ListVaults(r.Context(), actorID(r), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list vaults", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListVaultsResponse{
		Vaults: dto.VaultsFromDomain(vaults),
		Total:  int64(len(vaults)),
	})
}

// Get returns the vault together with the caller's permissions.
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	access, ok := middleware.GetAccessFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "vault not found", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccessFromDomain(access))
}

// Update changes vault settings.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateVaultRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vault, err := h.vaultUC.UpdateVault(r.Context(), req.ToUseCaseInput(vaultID(r)))
	if err != nil {
		writeDomainError(w, "failed to update vault", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VaultFromDomain(vault))
}

// ListMembers lists vault members in join order.
func (h *VaultHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.vaultUC.ListMembers(r.Context(), vaultID(r))
	if err != nil {
		writeDomainError(w, "failed to list members", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": dto.MembersFromDomain(members)})
}

// UpdateMember assigns a permission to a member.
func (h *VaultHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.vaultUC.UpdateMemberPermission(r.Context(), vaultID(r), userID, req.PermissionID); err != nil {
		writeDomainError(w, "failed to update member", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember removes a member. Members may always remove themselves.
func (h *VaultHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	actor := actorID(r)

	access, _ := middleware.GetAccessFromContext(r.Context())
	if userID != actor && !access.Can(domain.CapabilityManage) {
		writeDomainError(w, "failed to remove member", domain.ErrInsufficientAccess)
		return
	}

	if err := h.vaultUC.RemoveMember(r.Context(), vaultID(r), userID, actor); err != nil {
		writeDomainError(w, "failed to remove member", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreatePermission creates a named capability set.
func (h *VaultHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePermissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	permission, err := h.vaultUC.CreatePermission(r.Context(), req.ToUseCaseInput(vaultID(r)))
	if err != nil {
		writeDomainError(w, "failed to create permission", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PermissionFromDomain(permission))
}

// ListPermissions lists the permissions of a vault.
func (h *VaultHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.vaultUC.ListPermissions(r.Context(), vaultID(r))
	if err != nil {
		writeDomainError(w, "failed to list permissions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"permissions": dto.PermissionsFromDomain(permissions)})
}
