package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupRepoManager(t *testing.T) accounts.RepositoryManager {
	t.Helper()

	db, err := accounts.OpenDatabase(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, accounts.CreateSchema(context.Background(), db))

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()
	return repo
}

func seedUser(t *testing.T, repo accounts.RepositoryManager, email, nickname string) *accounts.User {
	t.Helper()

	hash, err := accounts.HashPassword("sup3r-secret")
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &accounts.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
	})
	require.NoError(t, err)
	return user
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("register fills defaults", func(t *testing.T) {
		repo := setupRepoManager(t)
		user := seedUser(t, repo, "alice@example.com", "alice")

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, accounts.RoleUser, user.Role)
		assert.Equal(t, accounts.ProviderEmail, user.Provider)
		assert.True(t, user.Status)
	})

	t.Run("lookup by email", func(t *testing.T) {
		repo := setupRepoManager(t)
		seedUser(t, repo, "alice@example.com", "alice")

		user, err := repo.Users().GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Nickname)

		_, err = repo.Users().GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, accounts.ErrUserNotFound)
	})

	t.Run("existence checks", func(t *testing.T) {
		repo := setupRepoManager(t)
		seedUser(t, repo, "alice@example.com", "alice")

		taken, err := repo.Users().ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.Users().ExistsByNickname(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.Users().ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("existence checks inside a transaction", func(t *testing.T) {
		repo := setupRepoManager(t)
		seedUser(t, repo, "alice@example.com", "alice")

		// The pool holds one connection, so these only answer if they
		// ride the transaction instead of asking the pool for another.
		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			taken, err := repo.Users().ExistsByEmailTx(ctx, tx, "alice@example.com")
			require.NoError(t, err)
			assert.True(t, taken)

			taken, err = repo.Users().ExistsByNicknameTx(ctx, tx, "nobody")
			require.NoError(t, err)
			assert.False(t, taken)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		repo := setupRepoManager(t)
		user := seedUser(t, repo, "alice@example.com", "alice")

		require.NoError(t, repo.Users().SoftDelete(ctx, user.ID))

		stored, err := repo.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive())

		err = repo.Users().SoftDelete(ctx, user.ID)
		assert.ErrorIs(t, err, accounts.ErrAlreadyDeleted)

		require.NoError(t, repo.Users().Restore(ctx, user.ID))

		stored, err = repo.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive())
	})

	t.Run("list active excludes deleted users", func(t *testing.T) {
		repo := setupRepoManager(t)
		seedUser(t, repo, "alice@example.com", "alice")
		bob := seedUser(t, repo, "bob@example.com", "bob")

		require.NoError(t, repo.Users().SoftDelete(ctx, bob.ID))

		active, err := repo.Users().ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "alice@example.com", active[0].Email)
	})

	t.Run("missing id reads as not found", func(t *testing.T) {
		repo := setupRepoManager(t)

		_, err := repo.Users().GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, accounts.ErrUserNotFound)
	})
}

func TestAgenciesRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		repo := setupRepoManager(t)
		rep := seedUser(t, repo, "rep@example.com", "rep")

		agency, err := repo.Agencies().Create(ctx, &accounts.Agency{
			Name:             "Acme Realty",
			Email:            "office@acme.example.com",
			Address:          "1 Main St",
			Contact:          "010-1234-5678",
			RepresentativeID: rep.ID,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, agency.ID)
		assert.True(t, agency.Status)

		stored, err := repo.Agencies().GetByID(ctx, agency.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Realty", stored.Name)
	})

	t.Run("missing agency reads as not found", func(t *testing.T) {
		repo := setupRepoManager(t)

		_, err := repo.Agencies().GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, accounts.ErrAgencyNotFound)
	})

	t.Run("soft delete twice is a conflict", func(t *testing.T) {
		repo := setupRepoManager(t)
		rep := seedUser(t, repo, "rep@example.com", "rep")

		agency, err := repo.Agencies().Create(ctx, &accounts.Agency{
			Name:             "Acme Realty",
			Email:            "office@acme.example.com",
			Address:          "1 Main St",
			Contact:          "010-1234-5678",
			RepresentativeID: rep.ID,
		})
		require.NoError(t, err)

		require.NoError(t, repo.Agencies().SoftDelete(ctx, agency.ID))
		assert.ErrorIs(t, repo.Agencies().SoftDelete(ctx, agency.ID), accounts.ErrAlreadyDeleted)
	})

	t.Run("members hides inactive accounts", func(t *testing.T) {
		repo := setupRepoManager(t)
		rep := seedUser(t, repo, "rep@example.com", "rep")
		member := seedUser(t, repo, "member@example.com", "member")

		agency, err := repo.Agencies().Create(ctx, &accounts.Agency{
			Name:             "Acme Realty",
			Email:            "office@acme.example.com",
			Address:          "1 Main St",
			Contact:          "010-1234-5678",
			RepresentativeID: rep.ID,
		})
		require.NoError(t, err)

		_, err = repo.Agencies().AddMember(ctx, agency.ID, rep.ID)
		require.NoError(t, err)
		_, err = repo.Agencies().AddMember(ctx, agency.ID, member.ID)
		require.NoError(t, err)

		members, err := repo.Agencies().Members(ctx, agency.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		require.NoError(t, repo.Users().SoftDelete(ctx, member.ID))

		members, err = repo.Agencies().Members(ctx, agency.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "rep@example.com", members[0].Email)
	})
}
