package session

// Kind distinguishes the two account classes that can hold a session.
type Kind string

const (
	KindAdmin  Kind = "admin"
	KindMember Kind = "member"
)

// Valid reports whether the kind is one of the two known account classes.
func (k Kind) Valid() bool {
	return k == KindAdmin || k == KindMember
}

// Key identifies one slot in the typed session key space.
type Key string

const (
	KeyAdminToken   Key = "admin_token"
	KeyAdminRecord  Key = "admin_record"
	KeyMemberToken  Key = "member_token"
	KeyMemberRecord Key = "member_record"
	KeyActiveTenant Key = "active_tenant"
)

// Record is the principal record persisted alongside a token.
type Record struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	DeviceLabel string `json:"device_label,omitempty"`
}

// Credentials bundles a token with its principal record.
type Credentials struct {
	Token     string
	Principal Record
}

// Snapshot reports which account classes currently have complete credentials.
// A kind is valid only when both its token and its principal record are present.
type Snapshot struct {
	Admin  bool
	Member bool
}

// Any reports whether at least one account class has a session.
func (s Snapshot) Any() bool {
	return s.Admin || s.Member
}

// Has reports validity for a single kind.
func (s Snapshot) Has(kind Kind) bool {
	switch kind {
	case KindAdmin:
		return s.Admin
	case KindMember:
		return s.Member
	default:
		return false
	}
}
