package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"azurea_hotel/internal/domain"
)

func snap() domain.BookingSnapshot {
	return domain.BookingSnapshot{
		BookingID:    42,
		GuestName:    "Amira Khalil",
		GuestEmail:   "amira@example.com",
		PropertyType: "Room",
		PropertyName: "Deluxe 101",
		CheckIn:      "2026-09-01",
		CheckOut:     "2026-09-04",
		Status:       "reserved",
	}
}

func TestSendConfirmation_PostsMessage(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "test-key", "no-reply@azurea.example", 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendConfirmation(context.Background(), snap()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.To != "amira@example.com" || got.Template != "booking_confirmation" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Vars["status"] != "RESERVED" {
		t.Fatalf("status var not upper-cased: %v", got.Vars["status"])
	}
}

func TestSendRejection_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", "no-reply@azurea.example", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendRejection(context.Background(), snap(), "overbooked"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestDisabled_DropsWithoutError(t *testing.T) {
	var n Disabled
	if err := n.SendConfirmation(context.Background(), snap()); err != nil {
		t.Fatalf("disabled confirmation: %v", err)
	}
	if err := n.SendRejection(context.Background(), snap(), "overbooked"); err != nil {
		t.Fatalf("disabled rejection: %v", err)
	}
}

func TestPost_FatalStatusNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unknown template", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", "no-reply@azurea.example", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendConfirmation(context.Background(), snap()); err == nil {
		t.Fatal("expected error for 404")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", n)
	}
}
