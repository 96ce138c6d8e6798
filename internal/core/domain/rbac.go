package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role groups permissions. Each user carries exactly one role.
type Role struct {
	ID        int64      `json:"-"`
	UUID      uuid.UUID  `json:"uuid"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Endpoint is the canonical name of a protected route, e.g. "/devices/:uuid".
// Authorization is declared against the registered route pattern, never
// against a concrete request path.
type Endpoint struct {
	ID        int64      `json:"-"`
	UUID      uuid.UUID  `json:"uuid"`
	Route     string     `json:"route"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Permission is a grantable capability: one HTTP action on one endpoint.
type Permission struct {
	ID            int64      `json:"-"`
	UUID          uuid.UUID  `json:"uuid"`
	Action        string     `json:"action"`
	EndpointID    int64      `json:"-"`
	EndpointUUID  uuid.UUID  `json:"endpoint"`
	EndpointRoute string     `json:"route"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"-"`
}

// RoleHasPermission is the role↔permission join row.
type RoleHasPermission struct {
	ID           int64      `json:"-"`
	UUID         uuid.UUID  `json:"uuid"`
	RoleID       int64      `json:"-"`
	PermissionID int64      `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Grant is one entry of a role's effective permission set.
type Grant struct {
	Action string `json:"action"`
	Route  string `json:"route"`
}

// PermissionSet is the resolved set of grants for a role. The zero value is
// an empty set and denies everything.
type PermissionSet struct {
	grants []Grant
	index  map[Grant]struct{}
}

// NewPermissionSet builds a set from grants, dropping duplicates but keeping
// first-seen order.
func NewPermissionSet(grants []Grant) PermissionSet {
	s := PermissionSet{index: make(map[Grant]struct{}, len(grants))}
	for _, g := range grants {
		if _, dup := s.index[g]; dup {
			continue
		}
		s.index[g] = struct{}{}
		s.grants = append(s.grants, g)
	}
	return s
}

// Allows reports whether the set grants action on the canonical route.
func (s PermissionSet) Allows(action, route string) bool {
	if s.index == nil {
		return false
	}
	_, ok := s.index[Grant{Action: action, Route: route}]
	return ok
}

// Grants returns the entries in resolution order.
func (s PermissionSet) Grants() []Grant {
	out := make([]Grant, len(s.grants))
	copy(out, s.grants)
	return out
}

// Len returns the number of grants in the set.
func (s PermissionSet) Len() int { return len(s.grants) }

// RoleRef identifies a role either by UUID or by name. Callers must pick one
// resolution key explicitly; there is no precedence between the two.
type RoleRef struct {
	uuid   uuid.UUID
	name   string
	byName bool
}

// RoleByUUID references a role by its external UUID.
func RoleByUUID(id uuid.UUID) RoleRef { return RoleRef{uuid: id} }

// RoleByName references a role by its unique name.
func RoleByName(name string) RoleRef { return RoleRef{name: name, byName: true} }

// ByName reports which key the reference carries, returning the UUID or the
// name accordingly.
func (r RoleRef) ByName() (string, bool) {
	if r.byName {
		return r.name, true
	}
	return "", false
}

// UUID returns the role UUID for a ByUUID reference.
func (r RoleRef) UUID() (uuid.UUID, bool) {
	if r.byName {
		return uuid.Nil, false
	}
	return r.uuid, true
}

// String renders the reference for logs.
func (r RoleRef) String() string {
	if r.byName {
		return "name:" + r.name
	}
	return "uuid:" + r.uuid.String()
}
