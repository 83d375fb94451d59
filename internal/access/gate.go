package access

import "fmt"

// CanAssign reports whether an actor holding role may publish content at
// visibility v
func CanAssign(role Role, v ContentVisibility) bool {
	if !role.Valid() {
		return false
	}

	switch v {
	case ContentPublic, ContentFriends:
		return true
	case ContentLeaders:
		return role == RoleLeader || role == RoleAdmin
	case ContentAdmin:
		return role == RoleAdmin
	default:
		return false
	}
}

// CheckAssign is CanAssign as an error for write paths
func CheckAssign(role Role, v ContentVisibility) error {
	if !v.Valid() {
		return fmt.Errorf("content visibility %q: %w", v, ErrInvalidValue)
	}
	if !CanAssign(role, v) {
		return fmt.Errorf("role %s cannot publish at %s visibility: %w", role, v, ErrUnauthorized)
	}
	return nil
}

// AssignableVisibilities lists the tiers role may choose from, in order
func AssignableVisibilities(role Role) []ContentVisibility {
	all := []ContentVisibility{ContentPublic, ContentFriends, ContentLeaders, ContentAdmin}

	allowed := make([]ContentVisibility, 0, len(all))
	for _, v := range all {
		if CanAssign(role, v) {
			allowed = append(allowed, v)
		}
	}
	return allowed
}

// CanBroadcast reports whether an actor may send to a mailing list: its owner,
// or any leader or admin
func CanBroadcast(role Role, isOwner bool) bool {
	return isOwner || role == RoleLeader || role == RoleAdmin
}
