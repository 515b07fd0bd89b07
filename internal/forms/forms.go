// Package forms binds multipart and urlencoded request bodies to typed forms
// and checks them against the rules declared in their struct tags.
package forms

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxMemory = 8 << 20

// Errors lists human-readable field messages, in field declaration order
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// RegisterForm is the account creation form
type RegisterForm struct {
	Username     string                `label:"Username" validate:"required,max=80"`
	Password     string                `label:"Password" validate:"required,max=72"`
	Firstname    string                `label:"Firstname" validate:"required,max=80"`
	Lastname     string                `label:"Lastname" validate:"required,max=80"`
	Email        string                `label:"Email" validate:"required,email,max=128"`
	Location     string                `label:"Location" validate:"max=128"`
	Biography    string                `label:"Biography" validate:"max=255"`
	ProfilePhoto *multipart.FileHeader `label:"Profile Photo" validate:"required"`
}

// LoginForm is the credentials form
type LoginForm struct {
	Username string `label:"Username" validate:"required"`
	Password string `label:"Password" validate:"required"`
}

// PostForm is the new post form
type PostForm struct {
	Caption string                `label:"Caption" validate:"max=255"`
	Photo   *multipart.FileHeader `label:"Photo" validate:"required"`
}

// ParseRegister binds and validates a registration request
func ParseRegister(r *http.Request) (*RegisterForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	f := &RegisterForm{
		Username:     strings.TrimSpace(r.PostFormValue("username")),
		Password:     r.PostFormValue("password"),
		Firstname:    strings.TrimSpace(r.PostFormValue("firstname")),
		Lastname:     strings.TrimSpace(r.PostFormValue("lastname")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Location:     strings.TrimSpace(r.PostFormValue("location")),
		Biography:    strings.TrimSpace(r.PostFormValue("biography")),
		ProfilePhoto: file(r, "profile_photo"),
	}
	return f, check(f)
}

// ParseLogin binds and validates a login request
func ParseLogin(r *http.Request) (*LoginForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	f := &LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	return f, check(f)
}

// ParsePost binds and validates a new post request
func ParsePost(r *http.Request) (*PostForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	f := &PostForm{
		Caption: strings.TrimSpace(r.PostFormValue("caption")),
		Photo:   file(r, "photo"),
	}
	return f, check(f)
}

func parse(r *http.Request) error {
	err := r.ParseMultipartForm(maxMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Errors{fmt.Sprintf("Error in the request - Body exceeds %d bytes.", tooLarge.Limit)}
	}
	return Errors{"Error in the request - Malformed form body."}
}

func file(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("Error in the %s field - %s", fe.Field(), reason(fe)))
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
