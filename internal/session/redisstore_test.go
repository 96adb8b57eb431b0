package session_test

import (
	"authboiler/internal/session"
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

var _ = Describe("RedisStore", func() {
	var (
		mr     *miniredis.Miniredis
		client *goredis.Client
		store  *session.RedisStore
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())

		client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		store = session.NewRedisStore(client)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(client.Close()).To(Succeed())
		mr.Close()
	})

	It("should store a session under a prefixed key with a ttl", func() {
		Expect(store.CommitCtx(ctx, "tok", []byte("payload"), time.Now().Add(time.Hour))).To(Succeed())

		Expect(mr.Exists("sessions:tok")).To(BeTrue())
		Expect(mr.TTL("sessions:tok")).To(BeNumerically("~", time.Hour, time.Second))

		data, found, err := store.FindCtx(ctx, "tok")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(data).To(Equal([]byte("payload")))
	})

	It("should forget a session once its key expires", func() {
		Expect(store.Commit("tok", []byte("payload"), time.Now().Add(time.Minute))).To(Succeed())
		mr.FastForward(2 * time.Minute)

		_, found, err := store.Find("tok")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("should delete a session committed with a past expiry", func() {
		Expect(store.Commit("tok", []byte("payload"), time.Now().Add(time.Hour))).To(Succeed())
		Expect(store.Commit("tok", []byte("payload"), time.Now().Add(-time.Second))).To(Succeed())

		Expect(mr.Exists("sessions:tok")).To(BeFalse())
	})

	It("should delete a session", func() {
		Expect(store.Commit("tok", []byte("payload"), time.Now().Add(time.Hour))).To(Succeed())
		Expect(store.Delete("tok")).To(Succeed())

		Expect(mr.Exists("sessions:tok")).To(BeFalse())
	})

	It("should list every session and ignore foreign keys", func() {
		Expect(store.Commit("a", []byte("1"), time.Now().Add(time.Hour))).To(Succeed())
		Expect(store.Commit("b", []byte("2"), time.Now().Add(time.Hour))).To(Succeed())
		Expect(mr.Set("other", "x")).To(Succeed())

		sessions, err := store.All()
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(Equal(map[string][]byte{
			"a": []byte("1"),
			"b": []byte("2"),
		}))
	})

	It("should return server errors", func() {
		mr.SetError("LOADING server is loading")

		_, _, err := store.FindCtx(ctx, "tok")
		Expect(err).To(MatchError(ContainSubstring("get session")))

		err = store.CommitCtx(ctx, "tok", nil, time.Now().Add(time.Hour))
		Expect(err).To(MatchError(ContainSubstring("set session")))
	})
})
