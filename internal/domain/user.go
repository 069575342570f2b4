package domain

import "time"

type Role string

const (
	RoleGuest Role = "guest"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) IsStaff() bool { return r == RoleStaff || r == RoleAdmin }

type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	Archived     bool
	CreatedAt    time.Time
}

func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return "Guest"
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Actor is the authenticated caller a service operation runs as.
type Actor struct {
	UserID int64
	Role   Role
}
