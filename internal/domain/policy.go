package domain

// Caller is the authenticated identity derived from a verified token.
type Caller struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanMutate is the single ownership rule for every entity mutation: the
// resource owner may act, and so may an admin.
func CanMutate(c Caller, ownerID string) bool {
	return c.IsAdmin() || c.ID == ownerID
}

// CanDeleteComment extends CanMutate for comment deletion, where the author
// of the commented post may also remove the comment.
func CanDeleteComment(c Caller, commentAuthorID, postAuthorID string) bool {
	return CanMutate(c, commentAuthorID) || c.ID == postAuthorID
}
