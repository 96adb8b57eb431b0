package middleware_test

import (
	"authboiler/internal/http/handler/middleware"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("RequestIDMiddleware", func() {
	var (
		w         *httptest.ResponseRecorder
		req       *http.Request
		seenID    string
		requestID http.Handler
	)

	BeforeEach(func() {
		seenID = ""
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/login", nil)
		requestID = middleware.NewRequestIDMiddleware().RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = middleware.GetRequestID(r.Context())
		}))
	})

	JustBeforeEach(func() {
		requestID.ServeHTTP(w, req)
	})

	When("the client sends no request id", func() {
		It("should generate one and echo it", func() {
			_, err := uuid.Parse(seenID)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(seenID))
		})
	})

	When("the client sends a valid request id", func() {
		var clientID string

		BeforeEach(func() {
			clientID = uuid.NewString()
			req.Header.Set(middleware.RequestIDHeader, clientID)
		})

		It("should keep it", func() {
			Expect(seenID).To(Equal(clientID))
			Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(clientID))
		})
	})

	When("the client sends a malformed request id", func() {
		BeforeEach(func() {
			req.Header.Set(middleware.RequestIDHeader, "<script>")
		})

		It("should replace it", func() {
			Expect(seenID).NotTo(Equal("<script>"))
			_, err := uuid.Parse(seenID)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var (
		logs   *observer.ObservedLogs
		status int
		w      *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		core, observed := observer.New(zap.InfoLevel)
		logs = observed
		logger := zap.New(core).Sugar()

		status = http.StatusTeapot
		w = httptest.NewRecorder()
		handler := middleware.NewLoggingMiddleware(logger).Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("short and stout"))
		}))
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", nil))
	})

	It("should log the request with its outcome", func() {
		Expect(w.Code).To(Equal(http.StatusTeapot))
		Expect(logs.Len()).To(Equal(1))

		entry := logs.All()[0]
		Expect(entry.Message).To(Equal("http request"))
		fields := entry.ContextMap()
		Expect(fields["method"]).To(Equal(http.MethodPost))
		Expect(fields["path"]).To(Equal("/register"))
		Expect(fields["status"]).To(BeEquivalentTo(http.StatusTeapot))
		Expect(fields["bytes"]).To(BeEquivalentTo(len("short and stout")))
	})
})
