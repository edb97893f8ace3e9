package models

// Role is a member's permission tier within one group.
// The set is closed; anything else is rejected at the boundary.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Member ties a user to a group with a role. Unique per user within a group.
type Member struct {
	// UserID references the user. Members do not embed the User record.
	UserID string

	// Role is the member's permission tier in this group.
	Role Role

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64
}

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is optional free text, opaque to the core.
	Description string

	// Currency is the ISO currency code expenses are recorded in.
	Currency string

	// CreatorID is the user who created the group. The creator is added as
	// the first admin, which establishes the at-least-one-admin invariant.
	CreatorID string

	// Members is the membership set. Order carries no meaning.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// FindMember returns the membership record for userID, or nil if the user
// is not in the group.
func (g *Group) FindMember(userID string) *Member {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the user IDs of every member, in membership order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
