package device

import "github.com/atriolabs/atrio-core/internal/auth"

// Visible reports whether a device may be shown to (and operated by) the
// given caller. The decision combines the record's access flags with the
// caller's role and apartment membership.
//
// Admin always passes. Tenants need the tenant flag plus zone matching:
// the device must sit in the common zone, or the caller must hold one of
// the apartment IDs covering the device's zone. Owners and guests need
// their flag plus apartment membership (common-area devices pass for
// owners without membership).
func Visible(d *RawDevice, caller *auth.Caller) bool {
	if caller == nil {
		return false
	}

	switch caller.Role {
	case auth.RoleAdmin:
		return true

	case auth.RoleOwner:
		if !d.Access.OwnerAccess {
			return false
		}
		return inCommonZone(d) ||
			caller.HasApartment(d.Location.ApartmentID)

	case auth.RoleTenant:
		if !d.Access.TenantAccess {
			return false
		}
		return inCommonZone(d) ||
			caller.HasApartment(d.Location.ApartmentID) ||
			caller.HasApartment(d.Location.Zone)

	case auth.RoleGuest:
		if !d.Access.GuestAccess {
			return false
		}
		return caller.HasApartment(d.Location.ApartmentID)

	default:
		return false
	}
}

func inCommonZone(d *RawDevice) bool {
	return d.Location.Zone == "common" || d.Location.IsCommonArea
}

// FilterVisible returns the subset of records visible to the caller.
// Applied before categorization in UI-facing paths.
func FilterVisible(records []RawDevice, caller *auth.Caller) []RawDevice {
	var out []RawDevice
	for i := range records {
		if Visible(&records[i], caller) {
			out = append(out, records[i])
		}
	}
	return out
}
