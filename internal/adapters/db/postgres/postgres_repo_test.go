package postgres

import (
	"context"
	"testing"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// каждое соединение к :memory: это отдельная база
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Guest{}, &model.User{}, &model.Admin{}, &model.Todo{}))
	return db
}

func TestPostgresUserRepo_CRUD(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresUserRepo(db)
	ctx := context.Background()

	acc, err := repo.CreateAccount(ctx, model.Account{Email: "e@e.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, acc.ID)
	require.False(t, acc.CreatedAt.IsZero())

	got, err := repo.GetAccountByEmail(ctx, "e@e.com")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, "h", got.PasswordHash)

	require.NoError(t, repo.Exists(ctx, acc.ID))

	u, err := repo.UpdateUserEmail(ctx, acc.ID, "new@e.com")
	require.NoError(t, err)
	require.Equal(t, "new@e.com", u.Email)

	require.NoError(t, repo.SoftDeleteUser(ctx, acc.ID))
	require.True(t, customErrors.IsNotFound(repo.Exists(ctx, acc.ID)))

	_, err = repo.GetUser(ctx, acc.ID)
	require.True(t, customErrors.IsNotFound(err))

	// строка осталась, помечена deleted_at
	var row model.User
	require.NoError(t, db.Unscoped().Where("id = ?", acc.ID).First(&row).Error)
	require.True(t, row.DeletedAt.Valid)

	require.True(t, customErrors.IsNotFound(repo.SoftDeleteUser(ctx, acc.ID)))
}

func TestPostgresUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.CreateAccount(ctx, model.Account{Email: "dup@e.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.CreateAccount(ctx, model.Account{Email: "dup@e.com", PasswordHash: "h"})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	// регистр учитывается
	_, err = repo.CreateAccount(ctx, model.Account{Email: "DUP@e.com", PasswordHash: "h"})
	require.NoError(t, err)
}

func TestPostgresUserRepo_EmailReusableAfterSoftDelete(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	first, err := repo.CreateAccount(ctx, model.Account{Email: "re@e.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDeleteUser(ctx, first.ID))

	second, err := repo.CreateAccount(ctx, model.Account{Email: "re@e.com", PasswordHash: "h2"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	got, err := repo.GetAccountByEmail(ctx, "re@e.com")
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
}

func TestPostgresUserRepo_UpdateEmailConflict(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	a, _ := repo.CreateAccount(ctx, model.Account{Email: "a@e.com", PasswordHash: "h"})
	_, _ = repo.CreateAccount(ctx, model.Account{Email: "b@e.com", PasswordHash: "h"})

	_, err := repo.UpdateUserEmail(ctx, a.ID, "b@e.com")
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	_, err = repo.UpdateUserEmail(ctx, uuid.New(), "c@e.com")
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresUserRepo_List(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	for _, e := range []string{"alice@x.com", "bob@x.com", "carol@y.com"} {
		_, err := repo.CreateAccount(ctx, model.Account{Email: e, PasswordHash: "h"})
		require.NoError(t, err)
	}

	users, total, err := repo.ListUsers(ctx, model.UserFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, users, 2)

	users, total, err = repo.ListUsers(ctx, model.UserFilter{Email: "X.COM"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, users, 2)
}

func TestPostgresAdminRepo_CRUD(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresAdminRepo(db)
	ctx := context.Background()

	acc, err := repo.CreateAccount(ctx, model.Account{Email: "root@e.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, repo.Exists(ctx, acc.ID))

	_, err = repo.CreateAccount(ctx, model.Account{Email: "root@e.com", PasswordHash: "h"})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	// почта админа не пересекается с пользователями
	_, err = NewPostgresUserRepo(db).CreateAccount(ctx, model.Account{Email: "root@e.com", PasswordHash: "h"})
	require.NoError(t, err)

	require.NoError(t, db.Unscoped().Where("id = ?", acc.ID).Delete(&model.Admin{}).Error)
	require.True(t, customErrors.IsNotFound(repo.Exists(ctx, acc.ID)))

	_, err = repo.GetAccountByEmail(ctx, "root@e.com")
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresGuestRepo_CRUD(t *testing.T) {
	repo := NewPostgresGuestRepo(setupDB(t))
	ctx := context.Background()

	g, err := repo.CreateGuest(ctx, model.Guest{})
	require.NoError(t, err)
	require.NoError(t, repo.Exists(ctx, g.ID))

	_, err = repo.CreateGuest(ctx, model.Guest{})
	require.NoError(t, err)

	got, err := repo.GetGuest(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, got.ID)

	guests, total, err := repo.ListGuests(ctx, 1, 1)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, guests, 1)

	require.NoError(t, repo.DeleteGuest(ctx, g.ID))
	require.True(t, customErrors.IsNotFound(repo.Exists(ctx, g.ID)))
	require.True(t, customErrors.IsNotFound(repo.DeleteGuest(ctx, g.ID)))
}

func TestPostgresGuestRepo_SetGuestDeleted(t *testing.T) {
	repo := NewPostgresGuestRepo(setupDB(t))
	ctx := context.Background()

	g, err := repo.CreateGuest(ctx, model.Guest{})
	require.NoError(t, err)

	suspended, err := repo.SetGuestDeleted(ctx, g.ID, true)
	require.NoError(t, err)
	require.True(t, suspended.DeletedAt.Valid)
	require.True(t, customErrors.IsNotFound(repo.Exists(ctx, g.ID)))

	// админские выборки видят приостановленного гостя
	got, err := repo.GetGuest(ctx, g.ID)
	require.NoError(t, err)
	require.True(t, got.DeletedAt.Valid)
	_, total, err := repo.ListGuests(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	restored, err := repo.SetGuestDeleted(ctx, g.ID, false)
	require.NoError(t, err)
	require.False(t, restored.DeletedAt.Valid)
	require.NoError(t, repo.Exists(ctx, g.ID))

	_, err = repo.SetGuestDeleted(ctx, uuid.New(), true)
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresTodoRepo_CRUD(t *testing.T) {
	repo := NewPostgresTodoRepo(setupDB(t))
	ctx := context.Background()
	owner := uuid.New()

	desc := "milk and bread"
	todo, err := repo.CreateTodo(ctx, model.Todo{OwnerID: owner, Title: "shop", Description: &desc, Status: model.TodoPending})
	require.NoError(t, err)

	_, err = repo.CreateTodo(ctx, model.Todo{OwnerID: owner, Title: "shop", Status: model.TodoPending})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	// у другого владельца тот же заголовок допустим
	_, err = repo.CreateTodo(ctx, model.Todo{OwnerID: uuid.New(), Title: "shop", Status: model.TodoPending})
	require.NoError(t, err)

	todo.Status = model.TodoCompleted
	todo.Description = nil
	updated, err := repo.UpdateTodo(ctx, todo)
	require.NoError(t, err)
	require.Equal(t, model.TodoCompleted, updated.Status)
	require.Nil(t, updated.Description)
	require.Equal(t, "shop", updated.Title)

	require.NoError(t, repo.DeleteTodo(ctx, todo.ID))
	_, err = repo.GetTodo(ctx, todo.ID)
	require.True(t, customErrors.IsNotFound(err))

	_, err = repo.UpdateTodo(ctx, todo)
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresTodoRepo_List(t *testing.T) {
	repo := NewPostgresTodoRepo(setupDB(t))
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	seed := []model.Todo{
		{OwnerID: owner, Title: "Buy milk", Status: model.TodoPending},
		{OwnerID: owner, Title: "Write report", Status: model.TodoInProgress},
		{OwnerID: owner, Title: "Call mom", Status: model.TodoCompleted},
		{OwnerID: other, Title: "Buy car", Status: model.TodoPending},
	}
	for _, s := range seed {
		_, err := repo.CreateTodo(ctx, s)
		require.NoError(t, err)
	}

	todos, total, err := repo.ListTodos(ctx, model.TodoFilter{OwnerID: owner})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, todos, 3)

	todos, total, err = repo.ListTodos(ctx, model.TodoFilter{OwnerID: owner, Search: "buy"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Buy milk", todos[0].Title)

	_, total, err = repo.ListTodos(ctx, model.TodoFilter{Status: model.TodoPending})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	todos, total, err = repo.ListTodos(ctx, model.TodoFilter{OwnerID: owner, Page: 2, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, todos, 1)
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"milk":   "%milk%",
		"100%":   `%100\%%`,
		"a_b":    `%a\_b%`,
		`c:\tmp`: `%c:\\tmp%`,
	}
	for in, want := range cases {
		require.Equal(t, want, likePattern(in), in)
	}
}

func TestPostgresTodoRepo_SearchIsLiteral(t *testing.T) {
	repo := NewPostgresTodoRepo(setupDB(t))
	ctx := context.Background()
	owner := uuid.New()

	for _, title := range []string{"plain", "100% done", "snake_case", "snakeXcase"} {
		_, err := repo.CreateTodo(ctx, model.Todo{OwnerID: owner, Title: title, Status: model.TodoPending})
		require.NoError(t, err)
	}

	search := func(s string) []string {
		todos, _, err := repo.ListTodos(ctx, model.TodoFilter{OwnerID: owner, Search: s})
		require.NoError(t, err)
		titles := make([]string, 0, len(todos))
		for _, td := range todos {
			titles = append(titles, td.Title)
		}
		return titles
	}

	require.Equal(t, []string{"100% done"}, search("%"))
	require.Equal(t, []string{"snake_case"}, search("_"))
	require.Equal(t, []string{"snake_case"}, search("e_c"))
	require.Empty(t, search("%%"))
}

func TestPostgresUserRepo_SearchIsLiteral(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	for _, e := range []string{"a_b@x.com", "axb@x.com"} {
		_, err := repo.CreateAccount(ctx, model.Account{Email: e, PasswordHash: "h"})
		require.NoError(t, err)
	}

	users, total, err := repo.ListUsers(ctx, model.UserFilter{Email: "a_b"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "a_b@x.com", users[0].Email)

	_, total, err = repo.ListUsers(ctx, model.UserFilter{Email: "%"})
	require.NoError(t, err)
	require.Zero(t, total)
}
