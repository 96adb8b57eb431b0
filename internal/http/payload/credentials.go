package payload

import (
	"net/url"

	"github.com/jellydator/validation"
)

// CredentialsRequest is the body accepted by the login and register forms.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c CredentialsRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

func (c *CredentialsRequest) FromForm(values url.Values) {
	c.Username = values.Get("username")
	c.Password = values.Get("password")
}
