package auth

import "github.com/google/uuid"

// Document access rules. Ownership is the preparedByUserId of a document;
// supervisors and admins are privileged.

// CanRead reports whether user may fetch a document owned by ownerID
func CanRead(user *UserContext, ownerID uuid.UUID) bool {
	return user != nil && (user.IsPrivileged() || user.UserID == ownerID)
}

// CanModify reports whether user may edit the non-status fields of a document
func CanModify(user *UserContext, ownerID uuid.UUID) bool {
	return CanRead(user, ownerID)
}

// CanDelete reports whether user may delete a document. Owners may delete
// their own documents.
func CanDelete(user *UserContext, ownerID uuid.UUID) bool {
	return CanRead(user, ownerID)
}

// CanSetStatus reports whether user may move documents between statuses
func CanSetStatus(user *UserContext) bool {
	return user != nil && user.IsPrivileged()
}

// OwnerScope returns the owner filter for list and stats queries: nil for
// privileged users, the caller's own id otherwise
func OwnerScope(user *UserContext) *uuid.UUID {
	if user.IsPrivileged() {
		return nil
	}
	id := user.UserID
	return &id
}
