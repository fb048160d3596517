package domain

// UserProfile mirrors the persisted representation in the user_profile table.
// ADObjectID is the natural key for inbound upserts; UserID is assigned by the
// store on creation and never changes.
type UserProfile struct {
	UserID      int64
	ADObjectID  string
	DisplayName string
	FirstName   string
	LastName    string
	Email       string
	Roles       []RoleAssignment
}

// MailboxName formats the profile as notification emails address it.
func (p UserProfile) MailboxName() string {
	return p.LastName + "," + p.FirstName
}

// RoleAssignment links a profile to a role within an application scope.
type RoleAssignment struct {
	UserRoleID int64
	UserID     int64
	RoleID     int64
	AppID      int64
}

// Role is a named role. Read-only for this service.
type Role struct {
	RoleID   int64
	RoleName string
}
