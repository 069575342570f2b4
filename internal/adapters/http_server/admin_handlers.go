package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"azurea_hotel/internal/app"
	"azurea_hotel/internal/domain"
)

func (h *Handlers) mountAdmin(r chi.Router) {
	r.Get("/stats", h.adminStats)
	r.Get("/revenue", h.adminRevenue)

	r.Get("/bookings", h.adminListBookings)
	r.Get("/bookings/{id}", h.adminGetBooking)
	r.Patch("/bookings/{id}/status", h.adminUpdateStatus)
	r.Post("/bookings/{id}/payment", h.adminRecordPayment)
	r.Delete("/bookings/{id}", h.adminDeleteBooking)

	r.Post("/rooms", h.adminCreateResource(domain.KindRoom))
	r.Put("/rooms/{id}", h.adminUpdateResource(domain.KindRoom))
	r.Delete("/rooms/{id}", h.adminDeleteResource(domain.KindRoom))
	r.Post("/areas", h.adminCreateResource(domain.KindArea))
	r.Put("/areas/{id}", h.adminUpdateResource(domain.KindArea))
	r.Delete("/areas/{id}", h.adminDeleteResource(domain.KindArea))

	r.Post("/amenities", h.adminCreateAmenity)
	r.Get("/amenities/{id}", h.adminGetAmenity)
	r.Put("/amenities/{id}", h.adminUpdateAmenity)
	r.Delete("/amenities/{id}", h.adminDeleteAmenity)

	r.Post("/staff", h.adminAddStaff)
	r.Get("/staff", h.adminListStaff)
	r.Get("/staff/{id}", h.adminGetStaff)
	r.Put("/staff/{id}", h.adminEditStaff)
	r.Delete("/staff/{id}", h.adminArchiveStaff)
}

// ---- dashboard ----

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Queries.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"active_bookings":   st.ActiveBookings,
		"available_rooms":   st.AvailableRooms,
		"occupied_rooms":    st.OccupiedRooms,
		"maintenance_rooms": st.MaintenanceRooms,
		"revenue":           st.Revenue,
	})
}

func (h *Handlers) adminRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := revenuePeriod(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	rev, err := h.Payments.ComputeRevenue(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"total":         rev.Total.StringFixed(2),
		"room_revenue":  rev.RoomRevenue.StringFixed(2),
		"venue_revenue": rev.VenueRevenue.StringFixed(2),
	})
}

// revenuePeriod parses from/to dates; absent bounds default to all time.
// The upper bound is exclusive, advanced by one day so "to" is inclusive
// for callers thinking in dates.
func revenuePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	if fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.Invalidf("invalid date format, use YYYY-MM-DD")
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.Invalidf("invalid date format, use YYYY-MM-DD")
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// ---- bookings ----

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListBookings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBookingListJSON(bs))
}

func (h *Handlers) adminGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBookingJSON(b))
}

func (h *Handlers) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Status       string `json:"status"`
		Reason       string `json:"reason"`
		SetAvailable *bool  `json:"set_available"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Bookings.Transition(r.Context(), id, req.Status, actorFrom(r.Context()), app.TransitionOptions{
		Reason:       req.Reason,
		SetAvailable: req.SetAvailable,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"message": out.Message,
		"booking": toBookingJSON(out.Booking),
	})
}

func (h *Handlers) adminRecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Amount          string `json:"amount"`
		TransactionType string `json:"transaction_type"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.Payments.RecordPayment(r.Context(), id, req.Amount, req.TransactionType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{
		"id":               tx.ID,
		"booking_id":       id,
		"transaction_type": string(tx.Type),
		"amount":           tx.Amount.StringFixed(2),
		"status":           string(tx.Status),
		"transaction_date": tx.TransactionDate.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) adminDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Bookings.DeleteBooking(r.Context(), id, actorFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "booking deleted"})
}

// ---- rooms / areas ----

type resourceRequest struct {
	Name        string  `json:"name"`
	RoomType    *string `json:"room_type"`
	Capacity    int     `json:"capacity"`
	Price       string  `json:"price"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	AmenityIDs  []int64 `json:"amenity_ids"`
}

func (req resourceRequest) toDomain(kind domain.ResourceKind, id int64) (domain.Resource, error) {
	price := decimal.Zero
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			return domain.Resource{}, domain.Invalidf("invalid price: %s", req.Price)
		}
		price = p
	}
	return domain.Resource{
		ID:          id,
		Kind:        kind,
		Name:        req.Name,
		RoomType:    req.RoomType,
		Capacity:    req.Capacity,
		Price:       price,
		Status:      domain.ResourceStatus(req.Status),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		AmenityIDs:  req.AmenityIDs,
	}, nil
}

func (h *Handlers) adminCreateResource(kind domain.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resourceRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := req.toDomain(kind, 0)
		if err != nil {
			writeError(w, err)
			return
		}
		out, err := h.Resources.CreateResource(r.Context(), actorFrom(r.Context()), res)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, toResourceJSON(out))
	}
}

func (h *Handlers) adminUpdateResource(kind domain.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req resourceRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err := req.toDomain(kind, id)
		if err != nil {
			writeError(w, err)
			return
		}
		out, err := h.Resources.UpdateResource(r.Context(), actorFrom(r.Context()), res)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, toResourceJSON(out))
	}
}

func (h *Handlers) adminDeleteResource(kind domain.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ref := domain.ResourceRef{Kind: kind, ID: id}
		if err := h.Resources.DeleteResource(r.Context(), actorFrom(r.Context()), ref); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{"message": "property deleted"})
	}
}

// ---- amenities ----

func (h *Handlers) adminCreateAmenity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := h.Resources.CreateAmenity(r.Context(), actorFrom(r.Context()), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"id": a.ID, "description": a.Description})
}

func (h *Handlers) adminGetAmenity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.Resources.GetAmenity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": a.ID, "description": a.Description})
}

func (h *Handlers) adminUpdateAmenity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Resources.UpdateAmenity(r.Context(), actorFrom(r.Context()), domain.Amenity{ID: id, Description: req.Description}); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id, "description": req.Description})
}

func (h *Handlers) adminDeleteAmenity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Resources.DeleteAmenity(r.Context(), actorFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "amenity deleted"})
}

// ---- staff ----

type staffJSON struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Archived  bool   `json:"archived"`
}

func toStaffJSON(u domain.User) staffJSON {
	return staffJSON{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Archived:  u.Archived,
	}
}

func (h *Handlers) adminAddStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Users.AddStaff(r.Context(), actorFrom(r.Context()), app.StaffRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toStaffJSON(u))
}

func (h *Handlers) adminListStaff(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.ListStaff(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]staffJSON, 0, len(us))
	for _, u := range us {
		out = append(out, toStaffJSON(u))
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handlers) adminGetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Users.GetStaff(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toStaffJSON(u))
}

func (h *Handlers) adminEditStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u := domain.User{ID: id, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	if err := h.Users.EditStaff(r.Context(), actorFrom(r.Context()), u); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "staff updated"})
}

func (h *Handlers) adminArchiveStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.ArchiveStaff(r.Context(), actorFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": "staff archived"})
}
