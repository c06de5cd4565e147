package model

type User struct {
	ID int32 `json:"id"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`

	Name         string   `json:"name"`
	Email        string   `json:"email"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	PasswordHash string   `json:"password_hash"`
	AvatarURL    string   `json:"avatar_url"`
	Books        []string `json:"books"`
}

type FindUser struct {
	ID    *int32  `json:"id"`
	Email *string `json:"email"`
	City  *string `json:"city"`

	// The maximum number of users to return.
	Limit *int
}

// UpdateUser carries a partial profile update. Nil fields are untouched.
type UpdateUser struct {
	Name         *string
	City         *string
	Address      *string
	Phone        *string
	AvatarURL    *string
	PasswordHash *string
}

type UserRegisterRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Password      string   `json:"password"`
	SelectedBooks []string `json:"selected_books"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name            *string `json:"name"`
	City            *string `json:"city"`
	Address         *string `json:"address"`
	Phone           *string `json:"phone"`
	AvatarURL       *string `json:"avatar_url"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

// PublicUser is the non-sensitive profile payload sent to clients.
type PublicUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		Name:      u.Name,
		Email:     u.Email,
		City:      u.City,
		Address:   u.Address,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
	}
}

// SessionUser is the identity stored in the session token.
type SessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
