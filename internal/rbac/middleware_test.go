package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type staticPerms struct {
	perms []string
}

func (s staticPerms) EffectivePermissions(context.Context, int64) ([]string, error) {
	return s.perms, nil
}

func requestWithUser(t *testing.T, userID string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := shared.NewSession()
	sess.SetUser(userID)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestRequireAnyGrantsOnSingleMatch(t *testing.T) {
	mw := Middleware{Service: staticPerms{perms: []string{PermProcurementView}}}

	var called bool
	h := mw.RequireAny(PermProcurementView, PermMasterView)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(t, "42"))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAllDeniesOnPartialMatch(t *testing.T) {
	mw := Middleware{Service: staticPerms{perms: []string{PermProcurementView}}}

	h := mw.RequireAll(PermProcurementView, PermProcurementEdit)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(t, "42"))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyDeniesAnonymous(t *testing.T) {
	mw := Middleware{Service: staticPerms{perms: []string{PermProcurementView}}}

	h := mw.RequireAny(PermProcurementView)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
}
