package mailer

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"azurea_hotel/internal/adapters/observability"
	"azurea_hotel/internal/domain"
)

// Client talks to the transactional mail relay. It implements
// domain.Notifier. Sends are rate limited client-side and retried on 429
// and transient 5xx with jittered backoff, honoring Retry-After.
type Client struct {
	base string
	key  string
	from string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key, from string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("mail relay base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		from: from,
		hc:   &http.Client{Timeout: 15 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type message struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Vars     map[string]any `json:"vars"`
}

func (c *Client) SendConfirmation(ctx context.Context, s domain.BookingSnapshot) error {
	return c.post(ctx, message{
		From:     c.from,
		To:       s.GuestEmail,
		Subject:  "Azurea Hotel - Your Booking Has Been Confirmed",
		Template: "booking_confirmation",
		Vars:     snapshotVars(s),
	})
}

func (c *Client) SendRejection(ctx context.Context, s domain.BookingSnapshot, reason string) error {
	if reason == "" {
		reason = "No reason provided"
	}
	vars := snapshotVars(s)
	vars["cancellation_reason"] = reason
	return c.post(ctx, message{
		From:     c.from,
		To:       s.GuestEmail,
		Subject:  "Azurea Hotel - Your Booking Has Been Rejected",
		Template: "booking_rejection",
		Vars:     vars,
	})
}

func snapshotVars(s domain.BookingSnapshot) map[string]any {
	return map[string]any{
		"guest_name":     s.GuestName,
		"booking_id":     s.BookingID,
		"property_type":  s.PropertyType,
		"property_name":  s.PropertyName,
		"check_in_date":  s.CheckIn,
		"check_out_date": s.CheckOut,
		"status":         strings.ToUpper(s.Status),
	}
}

func (c *Client) post(ctx context.Context, m message) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	url := c.base + "/v1/messages"

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("Authorization", "Bearer "+c.key)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "azurea-hotel/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}
		observability.ObserveExternal("mailer", "/v1/messages", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("mail relay %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("mail relay status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles per attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
