package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// LinkIdentityRequest is the request body for third-party identity login/linking
type LinkIdentityRequest struct {
	Secret      string `json:"secret"`
	DisplayName string `json:"display_name,omitempty"`
}

// PlaceWagerRequest is the request body for placing a wager
type PlaceWagerRequest struct {
	Stake int64  `json:"stake"`
	Risk  string `json:"risk,omitempty"`
}
