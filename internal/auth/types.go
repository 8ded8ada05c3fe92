package auth

// Role represents an authorisation tier in the building.
type Role string

const (
	// RoleOwner is an apartment owner.
	RoleOwner Role = "owner"

	// RoleTenant is a renting resident. Tenant visibility of common-area
	// devices is additionally scoped by zone and apartment membership.
	RoleTenant Role = "tenant"

	// RoleGuest is a temporary invitee of a resident.
	RoleGuest Role = "guest"

	// RoleAdmin is building management. Bypasses device access flags.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of roles the external identity provider may issue.
var ValidRoles = []Role{RoleOwner, RoleTenant, RoleGuest, RoleAdmin}

// IsValidRole returns true if the role is one the IdP may issue.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Caller is an authenticated identity as seen by the device layer.
type Caller struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`

	// ApartmentIDs lists the apartments the caller belongs to. Used for
	// zone matching when filtering tenant-visible devices.
	ApartmentIDs []string `json:"apartmentIds,omitempty"`
}

// HasApartment reports whether the caller belongs to the given apartment.
func (c *Caller) HasApartment(id string) bool {
	if id == "" {
		return false
	}
	for _, a := range c.ApartmentIDs {
		if a == id {
			return true
		}
	}
	return false
}
