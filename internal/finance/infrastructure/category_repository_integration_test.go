package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/ExpenseManager/db"
	"github.com/sebuszqo/ExpenseManager/internal/config"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newPostgresRepository(t *testing.T) *CategoryRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("expense_manager"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbService, err := database.NewDBService(ctx, config.Database{ConnectionString: connStr, Name: "expense_manager"}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { dbService.Close() })
	require.NoError(t, dbService.Migrate(ctx))

	return NewCategoryRepository(dbService.DB)
}

func TestPostgresCategoryRepository(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	food := domain.Category{ID: uuid.New(), Name: "Food", Description: "Groceries", OwnerID: owner}
	require.NoError(t, repo.InsertOne(ctx, food))

	t.Run("unique index rejects same name for same owner", func(t *testing.T) {
		err := repo.InsertOne(ctx, domain.Category{ID: uuid.New(), Name: "Food", Description: "again", OwnerID: owner})
		assert.ErrorIs(t, err, appErrors.ErrCategoryAlreadyExists)
	})

	t.Run("same name allowed for another owner", func(t *testing.T) {
		err := repo.InsertOne(ctx, domain.Category{ID: uuid.New(), Name: "Food", Description: "theirs", OwnerID: other})
		assert.NoError(t, err)
	})

	t.Run("batch insert is all or nothing", func(t *testing.T) {
		err := repo.InsertMany(ctx, []domain.Category{
			{ID: uuid.New(), Name: "Rent", Description: "Flat", OwnerID: owner},
			{ID: uuid.New(), Name: "Food", Description: "clash", OwnerID: owner},
		})
		assert.ErrorIs(t, err, appErrors.ErrCategoryAlreadyExists)

		categories, err := repo.FindByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, []domain.Category{food}, categories)
	})

	t.Run("replace and delete are scoped by owner", func(t *testing.T) {
		renamed := domain.Category{ID: food.ID, Name: "Dining", Description: "Restaurants", OwnerID: other}
		assert.ErrorIs(t, repo.ReplaceOne(ctx, renamed), appErrors.ErrCategoryNotFound)
		assert.ErrorIs(t, repo.DeleteOne(ctx, food.ID, other), appErrors.ErrCategoryNotFound)

		renamed.OwnerID = owner
		require.NoError(t, repo.ReplaceOne(ctx, renamed))
		found, err := repo.FindOne(ctx, food.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, renamed, *found)

		require.NoError(t, repo.DeleteOne(ctx, food.ID, owner))
		found, err = repo.FindOne(ctx, food.ID, owner)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
