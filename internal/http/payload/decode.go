package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 100 << 10

var ErrUnsupportedForm = errors.New("payload cannot be decoded from a form")

// FormDecodable is implemented by payloads that accept urlencoded bodies.
type FormDecodable interface {
	FromForm(values url.Values)
}

type Decoder struct{}

// DecodeAndValidatePayload fills object from a JSON or urlencoded body and
// validates it. Bodies of any other type leave object untouched.
func (d Decoder) DecodeAndValidatePayload(r *http.Request, object any) error {
	if err := d.DecodePayload(r, object); err != nil {
		return err
	}
	return validatePayload(object)
}

func (d Decoder) DecodePayload(r *http.Request, object any) (err error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		errClose := r.Body.Close()
		if err == nil {
			err = errClose
		}
	}()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return decodeJSON(r.Body, object)
	case "application/x-www-form-urlencoded":
		return decodeForm(r, object)
	}
	return nil
}

func decodeJSON(body io.Reader, object any) error {
	err := json.NewDecoder(body).Decode(object)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding json payload: %w", err)
	}
	return nil
}

func decodeForm(r *http.Request, object any) error {
	target, ok := object.(FormDecodable)
	if !ok {
		return fmt.Errorf("decoding form payload into %T: %w", object, ErrUnsupportedForm)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("decoding form payload: %w", err)
	}
	target.FromForm(r.PostForm)
	return nil
}
