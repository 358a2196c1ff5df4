package handlers

import (
	"net/http"
	"strconv"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/scope"
)

// scopeFrom derives the record scope for a request. Customer and branch
// logins are pinned to their own scope; staff pick the target through the
// selector query params, where a chosen branch always wins over the
// customer (picking a branch switches the whole view to branch scope).
func scopeFrom(r *http.Request, ident *identity.Identity) (scope.Scope, bool) {
	if ident != nil {
		switch ident.Role {
		case identity.RoleCustomer:
			return scope.ForCustomer(ident.Customer.ID), true
		case identity.RoleBranch:
			return scope.ForBranch(ident.Branch.ID), true
		}
	}
	if id := queryUint(r, "branch_id"); id != 0 {
		return scope.ForBranch(id), true
	}
	if id := queryUint(r, "customer_id"); id != 0 {
		return scope.ForCustomer(id), true
	}
	return scope.Scope{}, false
}

func queryUint(r *http.Request, key string) uint {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// identityFrom resolves the request principal through the role chain.
// Resolution is re-run per request; the session's cached role is display
// state only and never trusted for authorization.
func identityFrom(r *http.Request, chain *identity.Chain) *identity.Identity {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return nil
	}
	return chain.Resolve(r.Context(), p)
}

func isStaff(ident *identity.Identity) bool {
	return ident != nil && (ident.Role == identity.RoleAdmin || ident.Role == identity.RoleOperator)
}
