package types

// Role is the author of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleModel
}

func (r Role) String() string {
	return string(r)
}
