package statemachine

import (
	"errors"

	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/models"
)

// AccessState is resolved once per request from the session cookie.
type AccessState string

const (
	Unauthenticated AccessState = "UNAUTHENTICATED"
	Authenticated   AccessState = "AUTHENTICATED"
)

// Guard names a route gate.
type Guard string

const (
	GuardAuthenticated Guard = "authenticated"
	GuardElevated      Guard = "elevated"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAccessDenied     = errors.New("access denied")
)

// Session is the access state of one request. Claims is nil when
// Unauthenticated.
type Session struct {
	State  AccessState
	Claims *auth.Claims
}

func Anonymous() Session {
	return Session{State: Unauthenticated}
}

// Resolve turns the outcome of token verification into a Session.
func Resolve(claims *auth.Claims, err error) Session {
	if err != nil || claims == nil || !claims.Role.Valid() {
		return Anonymous()
	}
	return Session{State: Authenticated, Claims: claims}
}

func (s Session) LoggedIn() bool { return s.State == Authenticated }

// Role is empty for anonymous sessions.
func (s Session) Role() models.Role {
	if s.Claims == nil {
		return ""
	}
	return s.Claims.Role
}

func (s Session) AccountID() uint {
	if s.Claims == nil {
		return 0
	}
	return s.Claims.AccountID
}

// Permission grants a role passage through a guard.
type Permission struct {
	Guard Guard
	Role  models.Role
}

// permissions is the authoritative access table
var permissions = []Permission{
	// any logged-in account
	{Guard: GuardAuthenticated, Role: models.RoleClient},
	{Guard: GuardAuthenticated, Role: models.RoleEmployee},
	{Guard: GuardAuthenticated, Role: models.RoleAdmin},
	// inventory management
	{Guard: GuardElevated, Role: models.RoleEmployee},
	{Guard: GuardElevated, Role: models.RoleAdmin},
}

type permissionKey struct {
	Guard Guard
	Role  models.Role
}

var permissionMap = func() map[permissionKey]bool {
	m := make(map[permissionKey]bool)
	for _, p := range permissions {
		m[permissionKey{p.Guard, p.Role}] = true
	}
	return m
}()

// AllowedRoles returns every role that passes guard, in table order.
func AllowedRoles(guard Guard) []models.Role {
	var roles []models.Role
	for _, p := range permissions {
		if p.Guard == guard {
			roles = append(roles, p.Role)
		}
	}
	return roles
}

// Check reports whether sess may pass guard.
func Check(sess Session, guard Guard) error {
	if !sess.LoggedIn() {
		return ErrNotAuthenticated
	}
	if permissionMap[permissionKey{Guard: guard, Role: sess.Role()}] {
		return nil
	}
	return ErrAccessDenied
}
