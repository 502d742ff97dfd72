package service_test

import (
	"context"
	"testing"

	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/db/postgres"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/adapters/transport/http/dto"
	todosvc "github.com/Miraines/MoonyAndStarry/todo-service/internal/app/todo/service"
	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	svc        todosvc.Service
	alice, bob model.Principal
	admin      model.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Todo{}))

	users := postgres.NewPostgresUserRepo(db)
	ctx := context.Background()
	a, err := users.CreateAccount(ctx, model.Account{Email: "alice@e.com", PasswordHash: "h"})
	require.NoError(t, err)
	b, err := users.CreateAccount(ctx, model.Account{Email: "bob@e.com", PasswordHash: "h"})
	require.NoError(t, err)

	return &fixture{
		svc:   todosvc.New(postgres.NewPostgresTodoRepo(db), users, nil, nil),
		alice: model.Principal{ID: a.ID, Role: model.RoleUser},
		bob:   model.Principal{ID: b.ID, Role: model.RoleUser},
		admin: model.Principal{ID: uuid.New(), Role: model.RoleAdmin},
	}
}

func ptr[T any](v T) *T { return &v }

func TestTodoService_CreateGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	todo, err := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "buy milk"})
	require.NoError(t, err)
	require.Equal(t, f.alice.ID, todo.OwnerID)
	require.Equal(t, model.TodoPending, todo.Status)

	got, err := f.svc.Get(ctx, f.alice, todo.ID)
	require.NoError(t, err)
	require.Equal(t, "buy milk", got.Title)
}

func TestTodoService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{})
	require.True(t, customErrors.IsInvalidArgument(err))

	_, err = f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "x", Status: "done"})
	require.True(t, customErrors.IsInvalidArgument(err))

	// todo принадлежат только пользователям
	_, err = f.svc.Create(ctx, f.admin, dto.CreateTodoDTO{Title: "x"})
	require.ErrorIs(t, err, customErrors.ErrForbidden)
}

func TestTodoService_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	todo, err := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "secret"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob, todo.ID)
	require.ErrorIs(t, err, customErrors.ErrForbidden)

	_, err = f.svc.Update(ctx, f.bob, todo.ID, dto.UpdateTodoDTO{Title: ptr("hacked")})
	require.ErrorIs(t, err, customErrors.ErrForbidden)

	require.ErrorIs(t, f.svc.Delete(ctx, f.bob, todo.ID), customErrors.ErrForbidden)

	got, err := f.svc.Get(ctx, f.admin, todo.ID)
	require.NoError(t, err)
	require.Equal(t, "secret", got.Title)

	_, err = f.svc.Get(ctx, f.bob, uuid.New())
	require.True(t, customErrors.IsNotFound(err))
}

func TestTodoService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	todo, _ := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "a", Description: ptr("d")})
	_, _ = f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "b"})

	updated, err := f.svc.Update(ctx, f.alice, todo.ID, dto.UpdateTodoDTO{Status: ptr("in-progress")})
	require.NoError(t, err)
	require.Equal(t, model.TodoInProgress, updated.Status)
	require.Equal(t, "a", updated.Title)
	require.Equal(t, "d", *updated.Description)

	_, err = f.svc.Update(ctx, f.alice, todo.ID, dto.UpdateTodoDTO{Title: ptr("b")})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	updated, err = f.svc.Update(ctx, f.admin, todo.ID, dto.UpdateTodoDTO{Status: ptr("completed")})
	require.NoError(t, err)
	require.Equal(t, model.TodoCompleted, updated.Status)
}

func TestTodoService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	todo, _ := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "a"})
	require.NoError(t, f.svc.Delete(ctx, f.alice, todo.ID))

	_, err := f.svc.Get(ctx, f.alice, todo.ID)
	require.True(t, customErrors.IsNotFound(err))
	require.True(t, customErrors.IsNotFound(f.svc.Delete(ctx, f.alice, todo.ID)))

	// заголовок можно использовать снова
	_, err = f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "a"})
	require.NoError(t, err)
}

func TestTodoService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: title})
		require.NoError(t, err)
	}
	_, _ = f.svc.Create(ctx, f.bob, dto.CreateTodoDTO{Title: "bob's"})

	page, err := f.svc.List(ctx, f.alice, dto.TodoSearchDTO{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.EqualValues(t, 3, page.Pagination.Records)
	require.Equal(t, 2, page.Pagination.Pages)
	require.Equal(t, 1, page.Pagination.Current)

	page, err = f.svc.List(ctx, f.alice, dto.TodoSearchDTO{Search: "T"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Pagination.Records)

	_, err = f.svc.List(ctx, f.admin, dto.TodoSearchDTO{})
	require.ErrorIs(t, err, customErrors.ErrForbidden)
}

func TestTodoService_ListByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _ = f.svc.Create(ctx, f.alice, dto.CreateTodoDTO{Title: "one"})

	page, err := f.svc.ListByOwner(ctx, f.admin, f.alice.ID, dto.TodoSearchDTO{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Pagination.Records)

	_, err = f.svc.ListByOwner(ctx, f.bob, f.alice.ID, dto.TodoSearchDTO{})
	require.ErrorIs(t, err, customErrors.ErrForbidden)

	_, err = f.svc.ListByOwner(ctx, f.admin, uuid.New(), dto.TodoSearchDTO{})
	require.True(t, customErrors.IsNotFound(err))
}
