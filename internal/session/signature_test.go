package session_test

import (
	"authboiler/internal/session"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Signature", func() {
	secret := []byte("keyboard cat")

	Describe("Sign", func() {
		It("should match the cookie-signature output", func() {
			Expect(session.Sign("hello", []byte("tobiiscool"))).
				To(Equal("hello.DGDUkGlIkCzPz+C0B064FNgHdEjox7ch8tOBGslZ5QI"))
		})

		It("should not pad the signature", func() {
			Expect(session.Sign("token", secret)).NotTo(HaveSuffix("="))
		})
	})

	Describe("Unsign", func() {
		It("should return the original value", func() {
			value, ok := session.Unsign(session.Sign("abc.def", secret), secret)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("abc.def"))
		})

		It("should reject a tampered value", func() {
			signed := session.Sign("abc", secret)
			_, ok := session.Unsign("abd"+strings.TrimPrefix(signed, "abc"), secret)
			Expect(ok).To(BeFalse())
		})

		It("should reject a different secret", func() {
			_, ok := session.Unsign(session.Sign("abc", secret), []byte("other"))
			Expect(ok).To(BeFalse())
		})

		It("should reject a value without a signature", func() {
			_, ok := session.Unsign("abc", secret)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("cookie encoding", func() {
		It("should escape the signed prefix", func() {
			Expect(session.EncodeCookie("tok", secret)).To(HavePrefix("s%3Atok."))
		})

		It("should round trip", func() {
			token, ok := session.DecodeCookie(session.EncodeCookie("tok", secret), secret)
			Expect(ok).To(BeTrue())
			Expect(token).To(Equal("tok"))
		})

		It("should reject unsigned cookies", func() {
			_, ok := session.DecodeCookie("tok", secret)
			Expect(ok).To(BeFalse())
		})

		It("should reject malformed escapes", func() {
			_, ok := session.DecodeCookie("s%3Atok.%zz", secret)
			Expect(ok).To(BeFalse())
		})
	})
})
