package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"azurea_hotel/internal/auth"
	"azurea_hotel/internal/domain"
)

const testSecret = "unit-secret"

func protected(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]any{"user_id": actorFrom(r.Context()).UserID})
	})
	return Auth(testSecret)(RequireStaff(inner))
}

func doReq(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/v1/admin/stats", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	h := protected(t)

	if rr := doReq(t, h, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d, want 401", rr.Code)
	}
	if rr := doReq(t, h, "not-a-jwt"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d, want 401", rr.Code)
	}

	expired, err := auth.NewAccessToken(testSecret, 7, domain.RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if rr := doReq(t, h, expired); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: %d, want 401", rr.Code)
	}

	wrongKey, err := auth.NewAccessToken("other-secret", 7, domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if rr := doReq(t, h, wrongKey); rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong signing key: %d, want 401", rr.Code)
	}
}

func TestRequireStaff_RoleGuard(t *testing.T) {
	h := protected(t)

	guest, err := auth.NewAccessToken(testSecret, 7, domain.RoleGuest, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if rr := doReq(t, h, guest); rr.Code != http.StatusForbidden {
		t.Fatalf("guest: %d, want 403", rr.Code)
	}

	for _, role := range []domain.Role{domain.RoleStaff, domain.RoleAdmin} {
		tok, err := auth.NewAccessToken(testSecret, 7, role, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		rr := doReq(t, h, tok)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: %d, want 200", role, rr.Code)
		}
		var out envelope
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Error != nil {
			t.Fatalf("unexpected error payload: %+v", out.Error)
		}
	}
}

func TestWriteError_KindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Invalidf("bad input"), http.StatusBadRequest},
		{domain.Forbiddenf("no"), http.StatusForbidden},
		{domain.NotFoundf("gone"), http.StatusNotFound},
		{domain.Conflictf("already"), http.StatusConflict},
		{http.ErrServerClosed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeError(rr, tc.err)
		if rr.Code != tc.want {
			t.Fatalf("%v: status %d, want %d", tc.err, rr.Code, tc.want)
		}
	}

	// enumerated valid values surface in the payload
	rr := httptest.NewRecorder()
	writeError(rr, domain.InvalidValues([]string{"pending", "reserved"}, "invalid status"))
	var out envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error == nil || len(out.Error.Valid) != 2 {
		t.Fatalf("valid values missing: %+v", out.Error)
	}
}
