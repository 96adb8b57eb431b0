package repository_test

import (
	"authboiler/internal/repository"
	"authboiler/internal/repository/fake"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserRepository", func() {
	var (
		repo         *repository.UserRepository
		fakeDatabase *fake.Database
		ctx          context.Context
	)

	BeforeEach(func() {
		fakeDatabase = new(fake.Database)
		repo = repository.NewUserRepository(fakeDatabase)
		ctx = context.Background()
	})

	Describe("RegisterSchema", func() {
		var err error

		JustBeforeEach(func() {
			err = repo.RegisterSchema(ctx)
		})

		When("migration succeeds", func() {
			BeforeEach(func() {
				fakeDatabase.MigrateModelsReturns(nil)
			})

			It("should register the user model only", func() {
				Expect(err).NotTo(HaveOccurred())

				Expect(fakeDatabase.MigrateModelsCallCount()).To(Equal(1))
				argCtx, models := fakeDatabase.MigrateModelsArgsForCall(0)
				Expect(argCtx).To(Equal(ctx))
				Expect(models).To(HaveLen(1))
				Expect(models[0]).To(BeAssignableToTypeOf(&repository.User{}))
			})
		})

		When("migration fails", func() {
			BeforeEach(func() {
				fakeDatabase.MigrateModelsReturns(errors.New("migration error"))
			})

			It("should return an error", func() {
				Expect(err).To(MatchError("register user schema: migration error"))
			})
		})
	})
})

var _ = Describe("User", func() {
	It("should live in the users collection", func() {
		Expect(repository.User{}.TableName()).To(Equal("users"))
	})

	It("should type every field as a string without requiring any", func() {
		schema := repository.User{}.JSONSchema()
		Expect(schema).NotTo(HaveKey("required"))
		Expect(schema["properties"]).To(HaveLen(3))
		Expect(schema["properties"]).To(HaveKey("username"))
		Expect(schema["properties"]).To(HaveKey("hash"))
		Expect(schema["properties"]).To(HaveKey("salt"))
	})
})
