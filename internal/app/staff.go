package app

import (
	"context"
	"strings"

	"azurea_hotel/internal/auth"
	"azurea_hotel/internal/domain"
)

// UserService covers login and the admin staff-management surface.
type UserService struct {
	users domain.UserStore
}

func NewUserService(u domain.UserStore) *UserService {
	return &UserService{users: u}
}

// Authenticate verifies credentials and returns the user. Token minting is
// the HTTP layer's job.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, domain.Forbiddenf("invalid email or password")
	}
	if u.Archived || !auth.VerifyPassword(u.PasswordHash, password) {
		return domain.User{}, domain.Forbiddenf("invalid email or password")
	}
	return u, nil
}

type StaffRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (s *UserService) AddStaff(ctx context.Context, actor domain.Actor, req StaffRequest) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, domain.Forbiddenf("only admin may manage staff")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return domain.User{}, domain.Invalidf("all fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return domain.User{}, domain.Invalidf("passwords do not match")
	}
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.User{}, domain.Conflictf("email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		Email:        strings.ToLower(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         domain.RoleStaff,
	}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (s *UserService) ListStaff(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.Forbiddenf("only staff or admin may list staff")
	}
	return s.users.ListStaff(ctx)
}

func (s *UserService) GetStaff(ctx context.Context, actor domain.Actor, id int64) (domain.User, error) {
	if !actor.Role.IsStaff() {
		return domain.User{}, domain.Forbiddenf("only staff or admin may view staff")
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !u.Role.IsStaff() {
		return domain.User{}, domain.NotFoundf("staff not found")
	}
	return u, nil
}

func (s *UserService) EditStaff(ctx context.Context, actor domain.Actor, u domain.User) error {
	if actor.Role != domain.RoleAdmin {
		return domain.Forbiddenf("only admin may manage staff")
	}
	cur, err := s.users.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if !cur.Role.IsStaff() {
		return domain.NotFoundf("staff not found")
	}
	// Credentials are managed through the auth flow, not this edit.
	u.PasswordHash = cur.PasswordHash
	u.Role = cur.Role
	return s.users.UpdateUser(ctx, u)
}

// ArchiveStaff soft-deletes: the account stays for audit but can no longer
// log in or appear in the roster.
func (s *UserService) ArchiveStaff(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.Role != domain.RoleAdmin {
		return domain.Forbiddenf("only admin may manage staff")
	}
	cur, err := s.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !cur.Role.IsStaff() {
		return domain.NotFoundf("staff not found")
	}
	return s.users.ArchiveStaff(ctx, id)
}
