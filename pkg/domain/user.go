package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	IsModerator  bool      `json:"isModerator"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity attached to a request once the
// token subject has been resolved. It carries no credential material.
type Principal struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"isAdmin"`
	IsModerator bool      `json:"isModerator"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewPrincipal(u *User) *Principal {
	return &Principal{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		IsModerator: u.IsModerator,
		CreatedAt:   u.CreatedAt,
	}
}

// Flag reports whether the named boolean attribute is set on the principal.
// Unknown names read as false, never as an error.
func (p *Principal) Flag(name string) bool {
	switch name {
	case "isAdmin":
		return p.IsAdmin
	case "isModerator":
		return p.IsModerator
	default:
		return false
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *Principal `json:"user"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	IsAdmin     *bool   `json:"isAdmin,omitempty"`
	IsModerator *bool   `json:"isModerator,omitempty"`
}
