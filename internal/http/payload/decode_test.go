package payload_test

import (
	"authboiler/internal/http/payload"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decoder", func() {
	var (
		decoder     payload.Decoder
		req         *http.Request
		credentials payload.CredentialsRequest
		err         error
	)

	newRequest := func(contentType, body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		return r
	}

	BeforeEach(func() {
		decoder = payload.Decoder{}
		credentials = payload.CredentialsRequest{}
	})

	Describe("DecodeAndValidatePayload", func() {
		JustBeforeEach(func() {
			err = decoder.DecodeAndValidatePayload(req, &credentials)
		})

		When("the body is json", func() {
			BeforeEach(func() {
				req = newRequest("application/json; charset=utf-8", `{"username":"alice","password":"s3cret","extra":1}`)
			})

			It("should decode the credentials", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(credentials).To(Equal(payload.CredentialsRequest{Username: "alice", Password: "s3cret"}))
			})
		})

		When("the body is a urlencoded form", func() {
			BeforeEach(func() {
				req = newRequest("application/x-www-form-urlencoded", "username=alice&password=s3cret")
			})

			It("should decode the credentials", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(credentials.Username).To(Equal("alice"))
				Expect(credentials.Password).To(Equal("s3cret"))
			})
		})

		When("the json is malformed", func() {
			BeforeEach(func() {
				req = newRequest("application/json", `{"username":`)
			})

			It("should return a decoding error", func() {
				Expect(err).To(MatchError(ContainSubstring("decoding json payload")))
			})
		})

		When("a field is missing", func() {
			BeforeEach(func() {
				req = newRequest("application/json", `{"username":"alice"}`)
			})

			It("should return a validation error", func() {
				Expect(err).To(MatchError(ContainSubstring("validating payload")))
				Expect(err).To(MatchError(ContainSubstring("password")))
			})
		})

		When("the content type is not understood", func() {
			BeforeEach(func() {
				req = newRequest("text/plain", "username=alice&password=s3cret")
			})

			It("should leave the payload empty and fail validation", func() {
				Expect(credentials).To(BeZero())
				Expect(err).To(MatchError(ContainSubstring("validating payload")))
			})
		})

		When("the body is empty", func() {
			BeforeEach(func() {
				req = newRequest("application/json", "")
			})

			It("should fail validation rather than decoding", func() {
				Expect(err).To(MatchError(ContainSubstring("validating payload")))
				Expect(err).NotTo(MatchError(ContainSubstring("decoding")))
			})
		})

		When("the body exceeds the limit", func() {
			BeforeEach(func() {
				body := "username=" + strings.Repeat("a", payload.MaxBodyBytes) + "&password=x"
				req = newRequest("application/x-www-form-urlencoded", body)
			})

			It("should reject it with a size error", func() {
				Expect(err).To(MatchError(ContainSubstring("decoding form payload")))
				var tooLarge *http.MaxBytesError
				Expect(errors.As(err, &tooLarge)).To(BeTrue())
				Expect(tooLarge.Limit).To(Equal(int64(payload.MaxBodyBytes)))
			})
		})
	})

	Describe("DecodePayload", func() {
		It("should refuse form bodies for payloads that cannot take them", func() {
			req := newRequest("application/x-www-form-urlencoded", "a=b")
			var target map[string]string
			err := decoder.DecodePayload(req, &target)
			Expect(err).To(MatchError(payload.ErrUnsupportedForm))
		})

		It("should ignore requests without a body", func() {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.Body = http.NoBody
			Expect(decoder.DecodePayload(req, &credentials)).To(Succeed())
			Expect(credentials).To(BeZero())
		})
	})
})
