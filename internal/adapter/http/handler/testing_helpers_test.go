package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/adapter/http/middleware"
	"github.com/iho/partytreasury/internal/domain"
)

type requestOpts struct {
	params map[string]string
	userID string
	access *domain.Access
}

func newRequest(method, target, body string, opts requestOpts) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for k, v := range opts.params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

	if opts.userID != "" {
		ctx = middleware.WithUser(ctx, &domain.User{ID: opts.userID, Email: opts.userID + "@party.test"})
	}
	if opts.access != nil {
		ctx = middleware.WithAccess(ctx, opts.access)
	}
	return req.WithContext(ctx)
}

func vaultParams(extra ...string) map[string]string {
	params := map[string]string{middleware.VaultIDParam: "v1"}
	for i := 0; i+1 < len(extra); i += 2 {
		params[extra[i]] = extra[i+1]
	}
	return params
}
