package permissions

import (
	"net/http"

	"reviewdb/proj/internal/domain/models"
)

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAdmin grants access only to an authenticated user with administrative
// privilege (superuser, staff or the admin role).
func IsAdmin(u *models.User) bool {
	return !u.IsAnonymous() && u.IsAdmin()
}

// AdminOrReadOnly grants safe methods unconditionally; mutating methods
// require IsAdmin.
func AdminOrReadOnly(u *models.User, method string) bool {
	if IsSafeMethod(method) {
		return true
	}
	return IsAdmin(u)
}

// ForReview is the policy for review and comment endpoints. Safe methods are
// always allowed and create only requires authentication. The remaining
// unsafe methods require the acting user to be the resource's author, a
// moderator or an admin.
func ForReview(u *models.User, method string, isOwner bool) bool {
	if IsSafeMethod(method) {
		return true
	}
	if u.IsAnonymous() {
		return false
	}
	if method == http.MethodPost {
		return true
	}
	return isOwner || u.IsModerator() || u.IsAdmin()
}
