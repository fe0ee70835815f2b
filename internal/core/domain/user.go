package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Identity is the cached profile of the current user. It is owned by the
// session store and only ever replaced wholesale, never field-patched, so a
// persisted copy can never drift from the in-memory one.
type Identity struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Roles       []string `json:"roles"`
	Active      bool     `json:"active"`
}

// HasRole reports whether the identity carries the given role tag.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Credential is the opaque bearer token authorizing requests on behalf of a
// user. The client never inspects the token, it only attaches it.
type Credential struct {
	Token string `json:"token"`
	Type  string `json:"tokenType"`
}

// Empty reports whether the credential carries no token.
func (c Credential) Empty() bool { return c.Token == "" }

// AuthResponse is what the login and register endpoints return.
type AuthResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	User      Identity `json:"user"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Address     string `json:"address" validate:"omitempty,max=255"`
}

// UpdateUserRequest is the admin payload for PUT /users/{id}.
type UpdateUserRequest struct {
	Email       string   `json:"email" validate:"omitempty,email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Roles       []string `json:"roles" validate:"omitempty,dive,oneof=CUSTOMER ADMIN"`
	Active      *bool    `json:"active"`
}
