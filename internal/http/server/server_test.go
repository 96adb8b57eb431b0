package server_test

import (
	"authboiler/internal/http/server"
	"io"
	"net"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("HTTPServer", func() {
	var (
		srv     *server.HTTPServer
		errChan <-chan error
	)

	BeforeEach(func() {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "pong")
		})
		srv = server.NewHTTP(zap.NewNop().Sugar(), handler, "127.0.0.1:0")
	})

	It("should report no address before it runs", func() {
		Expect(srv.Addr()).To(BeEmpty())
	})

	When("the address is free", func() {
		BeforeEach(func() {
			errChan = srv.Run()
		})

		It("should serve requests until shut down", func() {
			Expect(srv.Addr()).NotTo(BeEmpty())

			res, err := http.Get("http://" + srv.Addr() + "/ping")
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(res.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Body.Close()).To(Succeed())
			Expect(string(body)).To(Equal("pong"))

			Expect(srv.Shutdown()).To(Succeed())
			Eventually(errChan).Should(Receive(MatchError(http.ErrServerClosed)))
		})
	})

	When("the address is taken", func() {
		var taken net.Listener

		BeforeEach(func() {
			var err error
			taken, err = net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			srv = server.NewHTTP(zap.NewNop().Sugar(), http.NotFoundHandler(), taken.Addr().String())
			errChan = srv.Run()
		})

		AfterEach(func() {
			Expect(taken.Close()).To(Succeed())
		})

		It("should return the bind error", func() {
			Eventually(errChan).Should(Receive(MatchError(ContainSubstring("listen on"))))
			Expect(srv.Addr()).To(BeEmpty())
		})
	})
})
