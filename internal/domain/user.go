package domain

// Role distinguishes the customer shop from the admin back office. The two
// sessions are independent: separate tokens, separate persisted keys.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// AuthSession is a token pair plus the cached profile. Tokens are opaque
// bearer strings; a non-empty access token is the sole logged-in signal.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

func (s AuthSession) LoggedIn() bool {
	return s.AccessToken != ""
}
