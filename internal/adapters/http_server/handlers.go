package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"azurea_hotel/internal/app"
	"azurea_hotel/internal/auth"
	"azurea_hotel/internal/domain"
)

type Handlers struct {
	Bookings  *app.BookingService
	Payments  *app.PaymentService
	Queries   *app.QueryService
	Resources *app.ResourceService
	Users     *app.UserService

	JWTSecret string
	TokenTTL  time.Duration
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})

	// Public surface
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Get("/v1/availability", h.availability)
	s.mux.Get("/v1/rooms", h.listResources(domain.KindRoom))
	s.mux.Get("/v1/rooms/{id}", h.getResource(domain.KindRoom))
	s.mux.Get("/v1/areas", h.listResources(domain.KindArea))
	s.mux.Get("/v1/areas/{id}", h.getResource(domain.KindArea))
	s.mux.Get("/v1/amenities", h.listAmenities)

	// Authenticated guests
	s.mux.Group(func(r chi.Router) {
		r.Use(Auth(h.JWTSecret))
		r.Post("/v1/bookings", h.createBooking)
		r.Get("/v1/user/bookings", h.listOwnBookings)
		r.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
		r.Post("/v1/bookings/{id}/reviews", h.createReview)
	})

	// Staff/admin surface
	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(Auth(h.JWTSecret), RequireStaff)
		h.mountAdmin(r)
	})
}

// ---- JSON shapes ----

type bookingJSON struct {
	ID                 int64   `json:"id"`
	GuestID            int64   `json:"guest_id"`
	PropertyKind       string  `json:"property_kind"`
	PropertyID         int64   `json:"property_id"`
	CheckInDate        string  `json:"check_in_date"`
	CheckOutDate       string  `json:"check_out_date"`
	StartTime          *string `json:"start_time,omitempty"`
	EndTime            *string `json:"end_time,omitempty"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"payment_status"`
	TotalPrice         *string `json:"total_price"`
	ValidIDURL         string  `json:"valid_id_url"`
	SpecialRequest     *string `json:"special_request,omitempty"`
	CancellationDate   *string `json:"cancellation_date,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func toBookingJSON(b domain.Booking) bookingJSON {
	out := bookingJSON{
		ID:             b.ID,
		GuestID:        b.GuestID,
		PropertyKind:   string(b.Resource.Kind),
		PropertyID:     b.Resource.ID,
		CheckInDate:    b.CheckInDate.Format(dateLayout),
		CheckOutDate:   b.CheckOutDate.Format(dateLayout),
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		ValidIDURL:     b.ValidIDURL,
		SpecialRequest: b.SpecialRequest,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if b.TotalPrice != nil {
		v := b.TotalPrice.StringFixed(2)
		out.TotalPrice = &v
	}
	if b.CancellationDate != nil {
		v := b.CancellationDate.UTC().Format(time.RFC3339)
		out.CancellationDate = &v
	}
	out.CancellationReason = b.CancellationReason
	return out
}

func toBookingListJSON(bs []domain.Booking) []bookingJSON {
	out := make([]bookingJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingJSON(b))
	}
	return out
}

type resourceJSON struct {
	ID          int64   `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	RoomType    *string `json:"room_type,omitempty"`
	Capacity    int     `json:"capacity"`
	Price       string  `json:"price"`
	Status      string  `json:"status"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	AmenityIDs  []int64 `json:"amenity_ids,omitempty"`
}

func toResourceJSON(r domain.Resource) resourceJSON {
	return resourceJSON{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Name:        r.Name,
		RoomType:    r.RoomType,
		Capacity:    r.Capacity,
		Price:       r.Price.StringFixed(2),
		Status:      string(r.Status),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		AmenityIDs:  r.AmenityIDs,
	}
}

func toResourceListJSON(rs []domain.Resource) []resourceJSON {
	out := make([]resourceJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, toResourceJSON(r))
	}
	return out
}

// ---- auth ----

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	tok, err := auth.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.TokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"token":      tok,
		"user_id":    u.ID,
		"role":       string(u.Role),
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	})
}

// ---- availability ----

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Queries.CheckAvailability(r.Context(), q.Get("arrival"), q.Get("departure"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"arrival":   out.Arrival,
		"departure": out.Departure,
		"rooms":     toResourceListJSON(out.Rooms),
		"venues":    toResourceListJSON(out.Areas),
	})
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req struct {
		PropertyKind   string  `json:"property_kind"` // "room" | "area"
		PropertyID     int64   `json:"property_id"`
		CheckInDate    string  `json:"check_in_date"`
		CheckOutDate   string  `json:"check_out_date"`
		StartTime      *string `json:"start_time"`
		EndTime        *string `json:"end_time"`
		ValidIDURL     string  `json:"valid_id_url"`
		SpecialRequest *string `json:"special_request"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	kind := domain.ResourceKind(req.PropertyKind)
	if kind != domain.KindRoom && kind != domain.KindArea {
		writeError(w, domain.InvalidValues(
			[]string{string(domain.KindRoom), string(domain.KindArea)},
			"invalid property kind: %s", req.PropertyKind))
		return
	}

	b, err := h.Bookings.CreateBooking(r.Context(), app.BookingRequest{
		GuestID:        actor.UserID,
		Resource:       domain.ResourceRef{Kind: kind, ID: req.PropertyID},
		CheckIn:        req.CheckInDate,
		CheckOut:       req.CheckOutDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ValidIDURL:     req.ValidIDURL,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toBookingJSON(b))
}

func (h *Handlers) listOwnBookings(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	bs, err := h.Bookings.ListGuestBookings(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBookingListJSON(bs))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), id, actorFrom(r.Context()), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBookingJSON(b))
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rv, err := h.Bookings.CreateReview(r.Context(), id, actorFrom(r.Context()), req.Rating, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{
		"id":         rv.ID,
		"booking_id": rv.BookingID,
		"rating":     rv.Rating,
		"text":       rv.Text,
		"created_at": rv.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ---- property listings ----

func (h *Handlers) listResources(kind domain.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := h.Resources.ListResources(r.Context(), kind)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, toResourceListJSON(rs))
	}
}

func (h *Handlers) getResource(kind domain.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := h.Resources.GetResource(r.Context(), domain.ResourceRef{Kind: kind, ID: id})
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, toResourceJSON(res))
	}
}

func (h *Handlers) listAmenities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	out, err := h.Resources.ListAmenities(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(out.Items))
	for _, a := range out.Items {
		items = append(items, map[string]any{"id": a.ID, "description": a.Description})
	}
	writeData(w, http.StatusOK, map[string]any{
		"items": items,
		"page":  out.Page,
		"pages": out.Pages,
		"total": out.Total,
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalidf("id must be a positive number")
	}
	return id, nil
}
