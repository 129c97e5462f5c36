package models

// SessionUser is the user block of the check-auth response
type SessionUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin Flag   `json:"is_admin"`
}

// AuthStatus is the upstream check-auth payload
type AuthStatus struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}

// Flag decodes the upstream's 0/1 and true/false admin markers
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
