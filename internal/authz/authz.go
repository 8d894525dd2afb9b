package authz

// Role values, ordered from most to least privileged.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Allow reports whether actorRole satisfies any of the required roles.
// An empty requirement list means any authenticated user is allowed.
func Allow(actorRole string, required ...string) bool {
	if len(required) == 0 {
		return ValidRole(actorRole)
	}
	for _, r := range required {
		if actorRole == r {
			return true
		}
	}
	return false
}

// CanEdit reports whether the role may mutate projects.
func CanEdit(actorRole string) bool {
	return Allow(actorRole, RoleAdmin, RoleEditor)
}
