//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/config"
	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/persistence"
	"github.com/spec-kit/user-directory/internal/repository"
)

var (
	postgresDSN string
	mongoURI    string
)

func startContainer(ctx context.Context, req tc.ContainerRequest, port string) (tc.Container, string, error) {
	req.ExposedPorts = []string{port + "/tcp"}
	req.WaitingFor = wait.ForListeningPort(nat.Port(port + "/tcp")).WithStartupTimeout(2 * time.Minute)

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", err
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return nil, "", err
	}
	return container, fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, pgAddr, err := startContainer(ctx, tc.ContainerRequest{
		Image: "postgres:15-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "directory_test",
		},
	}, "5432")
	if err != nil {
		panic(err)
	}
	postgresDSN = fmt.Sprintf("postgres://postgres:password@%s/directory_test?sslmode=disable", pgAddr)

	mongoContainer, mongoAddr, err := startContainer(ctx, tc.ContainerRequest{Image: "mongo:7"}, "27017")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		panic(err)
	}
	mongoURI = "mongodb://" + mongoAddr

	code := m.Run()
	_ = mongoContainer.Terminate(ctx)
	_ = pgContainer.Terminate(ctx)
	os.Exit(code)
}

func newPostgresRepository(t *testing.T) repository.UserRepository {
	t.Helper()
	ctx := context.Background()

	var (
		pg  *persistence.Postgres
		err error
	)
	// the port can accept connections before the server is ready for queries
	require.Eventually(t, func() bool {
		pg, err = persistence.NewPostgres(ctx, config.PostgresConfig{DSN: postgresDSN, MaxConns: 4, MinConns: 1}, zap.NewNop())
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(pg.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	_, err = pg.PoolHandle().Exec(ctx, "TRUNCATE users")
	require.NoError(t, err)

	return repository.NewUserRepository(pg.PoolHandle())
}

func newMongoRepository(t *testing.T) repository.UserRepository {
	t.Helper()
	ctx := context.Background()

	mongo, err := persistence.NewMongo(ctx, config.MongoConfig{
		URI:            mongoURI,
		Database:       "directory_test",
		TimeoutSeconds: 30,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { mongo.Close(context.Background()) })

	collection := mongo.Collection("users")
	require.NoError(t, collection.Drop(ctx))
	require.NoError(t, repository.EnsureUserIndexes(ctx, collection))

	return repository.NewMongoUserRepository(collection)
}

func TestUserRepositories(t *testing.T) {
	backends := map[string]func(*testing.T) repository.UserRepository{
		"postgres": newPostgresRepository,
		"mongo":    newMongoRepository,
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			saved := map[string]*domain.User{}
			for _, n := range []string{"carol", "alice", "dave", "bob"} {
				user := &domain.User{Name: n, Email: n + "@example.com"}
				require.NoError(t, repo.Save(ctx, user))
				require.NotEmpty(t, user.ID)
				saved[n] = user
			}

			page, err := repo.Find(ctx, repository.UserQuery{SortBy: repository.SortByName, Skip: 1, Limit: 2})
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "bob", page[0].Name)
			assert.Equal(t, "carol", page[1].Name)

			archivedAt := time.Now().UTC().Truncate(time.Millisecond)
			dave := saved["dave"]
			dave.ArchivedAt = &archivedAt
			require.NoError(t, repo.Save(ctx, dave))

			count, err := repo.Count(ctx, repository.UserFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)

			all, err := repo.Count(ctx, repository.UserFilter{IncludeArchived: true})
			require.NoError(t, err)
			assert.Equal(t, int64(4), all)

			got, err := repo.FindByID(ctx, dave.ID)
			require.NoError(t, err)
			require.NotNil(t, got.ArchivedAt)
			assert.True(t, got.ArchivedAt.Equal(archivedAt))

			active, err := repo.Find(ctx, repository.UserQuery{SortBy: repository.SortByName})
			require.NoError(t, err)
			for _, u := range active {
				assert.NotEqual(t, "dave", u.Name)
			}

			alice := saved["alice"]
			alice.Email = "alice@new.example.com"
			require.NoError(t, repo.Save(ctx, alice))
			got, err = repo.FindByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice@new.example.com", got.Email)

			_, err = repo.FindByID(ctx, "not-an-id")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestUserRepositories_ByteOrderNames(t *testing.T) {
	backends := map[string]func(*testing.T) repository.UserRepository{
		"postgres": newPostgresRepository,
		"mongo":    newMongoRepository,
		"memory":   func(*testing.T) repository.UserRepository { return repository.NewMemoryUserRepository() },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()
			for _, n := range []string{"adam", "Zed", "Émile", "bob"} {
				require.NoError(t, repo.Save(ctx, &domain.User{Name: n, Email: n + "@example.com"}))
			}

			users, err := repo.Find(ctx, repository.UserQuery{SortBy: repository.SortByName})
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.Equal(t, []string{"Zed", "adam", "bob", "Émile"}, names)
		})
	}
}
