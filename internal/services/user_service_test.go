package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"necx-chat/internal/domain/user"
	"necx-chat/internal/mocks"
	necx_errors "necx-chat/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newUserService(t *testing.T) (*UserService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	return NewUserService(repo), repo
}

func TestGetAllUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns users from the store", func(t *testing.T) {
		svc, repo := newUserService(t)
		users := []user.User{{ID: "1", Name: "me"}, {ID: "2", Name: "you"}}
		repo.EXPECT().FindAll(ctx).Return(users, nil)

		got, err := svc.GetAllUsers(ctx)

		require.NoError(t, err)
		require.Equal(t, users, got)
	})

	t.Run("store failure is a storage error", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindAll(ctx).Return(nil, errors.New("connection refused"))

		_, err := svc.GetAllUsers(ctx)

		require.ErrorIs(t, err, necx_errors.ErrStorage)
		require.Equal(t, "failed to fetch users", err.Error())
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the trimmed name", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByName(ctx, "alice").Return(nil, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
			require.Equal(t, "alice", u.Name)
			u.ID = "abc"
			u.CreatedAt = time.Now()
			return nil
		})

		got, err := svc.CreateUser(ctx, "  alice  ")

		require.NoError(t, err)
		require.Equal(t, "abc", got.ID)
		require.Equal(t, "alice", got.Name)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  string
		}{
			{"empty", "", "User name is required"},
			{"whitespace only", "   \t", "User name is required"},
			{"too long", strings.Repeat("a", 51), "User name must be less than 50 characters"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newUserService(t)
				_, err := svc.CreateUser(ctx, tt.input)
				require.ErrorIs(t, err, necx_errors.ErrInvalidInput)
				require.EqualError(t, err, tt.want)
			})
		}
	})

	t.Run("fifty runes after trimming is accepted", func(t *testing.T) {
		svc, repo := newUserService(t)
		name := strings.Repeat("é", 50)
		repo.EXPECT().FindByName(ctx, name).Return(nil, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		_, err := svc.CreateUser(ctx, " "+name+" ")

		require.NoError(t, err)
	})

	t.Run("name taken in another case is a conflict", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByName(ctx, "bob").Return(&user.User{ID: "1", Name: "Bob"}, nil)

		_, err := svc.CreateUser(ctx, "bob")

		require.ErrorIs(t, err, necx_errors.ErrConflict)
		require.EqualError(t, err, "User with this name already exists")
	})

	t.Run("losing a concurrent insert surfaces the store conflict", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByName(ctx, "bob").Return(nil, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).Return(necx_errors.Conflict("User with this name already exists"))

		_, err := svc.CreateUser(ctx, "bob")

		require.Equal(t, necx_errors.KindConflict, necx_errors.KindOf(err))
	})

	t.Run("lookup failure is a storage error", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByName(ctx, "bob").Return(nil, errors.New("timeout"))

		_, err := svc.CreateUser(ctx, "bob")

		require.ErrorIs(t, err, necx_errors.ErrStorage)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an id", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, err := svc.DeleteUser(ctx, "")
		require.EqualError(t, err, "User ID is required")
		require.ErrorIs(t, err, necx_errors.ErrInvalidInput)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByID(ctx, "missing").Return(nil, nil)

		_, err := svc.DeleteUser(ctx, "missing")

		require.ErrorIs(t, err, necx_errors.ErrNotFound)
		require.EqualError(t, err, "User not found")
	})

	for _, name := range []string{"me", "you"} {
		t.Run("default user "+name+" is protected", func(t *testing.T) {
			svc, repo := newUserService(t)
			repo.EXPECT().FindByID(ctx, "seed").Return(&user.User{ID: "seed", Name: name}, nil)

			_, err := svc.DeleteUser(ctx, "seed")

			require.ErrorIs(t, err, necx_errors.ErrInvalidInput)
			require.EqualError(t, err, "Cannot delete default users")
		})
	}

	t.Run("protection is case-sensitive", func(t *testing.T) {
		svc, repo := newUserService(t)
		u := &user.User{ID: "1", Name: "Me"}
		repo.EXPECT().FindByID(ctx, "1").Return(u, nil)
		repo.EXPECT().Delete(ctx, "1").Return(u, nil)

		got, err := svc.DeleteUser(ctx, "1")

		require.NoError(t, err)
		require.Equal(t, u, got)
	})

	t.Run("user removed between lookup and delete is not found", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByID(ctx, "1").Return(&user.User{ID: "1", Name: "carol"}, nil)
		repo.EXPECT().Delete(ctx, "1").Return(nil, nil)

		_, err := svc.DeleteUser(ctx, "1")

		require.ErrorIs(t, err, necx_errors.ErrNotFound)
	})
}

func TestFindUserByName(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, err := svc.FindUserByName(ctx, "  ")
		require.EqualError(t, err, "User name is required")
	})

	t.Run("absence is not an error", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().FindByName(ctx, "ghost").Return(nil, nil)

		got, err := svc.FindUserByName(ctx, " ghost ")

		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("any casing finds the user", func(t *testing.T) {
		svc, repo := newUserService(t)
		alice := &user.User{ID: "1", Name: "Alice"}
		repo.EXPECT().FindByName(ctx, gomock.Any()).Return(alice, nil).Times(3)

		for _, name := range []string{"alice", "ALICE", "aLiCe"} {
			got, err := svc.FindUserByName(ctx, name)
			require.NoError(t, err)
			require.Equal(t, alice, got)
		}
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	_, err := svc.GetUserByID(ctx, "")
	require.EqualError(t, err, "User ID is required")

	repo.EXPECT().FindByID(ctx, "nope").Return(nil, nil)
	got, err := svc.GetUserByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestEnsureDefaultUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds me and you into an empty store", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().Count(ctx).Return(int64(0), nil)
		var created []string
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
			created = append(created, u.Name)
			return nil
		}).Times(2)

		count, err := svc.EnsureDefaultUsers(ctx)

		require.NoError(t, err)
		require.Zero(t, count)
		require.Equal(t, []string{"me", "you"}, created)
	})

	t.Run("leaves a populated store alone", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().Count(ctx).Return(int64(3), nil)

		count, err := svc.EnsureDefaultUsers(ctx)

		require.NoError(t, err)
		require.Equal(t, int64(3), count)
	})

	t.Run("tolerates a seed inserted by another instance", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.EXPECT().Count(ctx).Return(int64(0), nil)
		gomock.InOrder(
			repo.EXPECT().Create(ctx, gomock.Any()).Return(necx_errors.Conflict("User with this name already exists")),
			repo.EXPECT().Create(ctx, gomock.Any()).Return(nil),
		)

		_, err := svc.EnsureDefaultUsers(ctx)

		require.NoError(t, err)
	})
}
