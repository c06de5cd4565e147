package validator // import "github.com/bookbid/bookbid/validator"

import (
	"net/mail"

	"github.com/pkg/errors"

	"github.com/bookbid/bookbid/model"
	"github.com/bookbid/bookbid/store"
)

// ValidateRegisterRequest rejects incomplete or conflicting signups.
// Every field of the registration form is required.
func ValidateRegisterRequest(s *store.Store, signup *model.UserRegisterRequest) error {
	if signup == nil {
		return errors.New("request is nil")
	}
	if signup.Name == "" || signup.Email == "" || signup.City == "" ||
		signup.Address == "" || signup.Phone == "" || signup.Password == "" ||
		signup.SelectedBooks == nil {
		return errors.New("Missing fields")
	}
	if _, err := mail.ParseAddress(signup.Email); err != nil {
		return errors.New("email is invalid")
	}
	if err := validatePassword(signup.Password); err != nil {
		return err
	}
	if existing, _ := s.GetUser(&model.FindUser{Email: &signup.Email}); existing != nil {
		return errors.New("Email already registered")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}
	return nil
}
