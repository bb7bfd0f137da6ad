package users

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type User struct {
	Id        int64
	Firstname string
	Lastname  string
	Username  string
	Email     string
}

type SignupData struct {
	Firstname       string
	Lastname        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the presence of every field, then that both passwords match.
func (data *SignupData) Validate() error {
	if err := validation.ValidateStruct(data,
		validation.Field(&data.Firstname, validation.Required),
		validation.Field(&data.Lastname, validation.Required),
		validation.Field(&data.Username, validation.Required),
		validation.Field(&data.Email, validation.Required),
		validation.Field(&data.Password, validation.Required),
		validation.Field(&data.ConfirmPassword, validation.Required),
	); err != nil {
		return err
	}
	if data.Password != data.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

type LoginData struct {
	Username string
	Password string
}

func (data *LoginData) Validate() error {
	return validation.ValidateStruct(data,
		validation.Field(&data.Username, validation.Required),
		validation.Field(&data.Password, validation.Required),
	)
}
