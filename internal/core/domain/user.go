package domain

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

// User models a workshop member. Credentials are never serialised to clients.
type User struct {
	ID            string `json:"id" bson:"_id"`
	Username      string `json:"username,omitempty" bson:"username,omitempty"`
	Password      string `json:"-" bson:"password,omitempty"`
	PIN           string `json:"-" bson:"pin,omitempty"`
	Name          string `json:"name" bson:"name"`
	Role          string `json:"role" bson:"role"`
	AssignedStage string `json:"assignedStage,omitempty" bson:"assignedStage,omitempty"`
}

// UserPatch carries the optional fields of a user update. The id is not part
// of it: a user's id never changes.
type UserPatch struct {
	Username      *string
	Password      *string
	PIN           *string
	Name          *string
	Role          *string
	AssignedStage *string
}

// Apply merges the supplied fields into u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.PIN != nil {
		u.PIN = *p.PIN
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.AssignedStage != nil {
		u.AssignedStage = *p.AssignedStage
	}
}
