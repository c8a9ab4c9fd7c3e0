package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

type memRepo struct {
	byID map[uint]*User
	next uint
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uint]*User{}}
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	r.next++
	u.ID = r.next
	r.byID[u.ID] = u
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) UpdatePassword(_ context.Context, id uint, hashed string) error {
	r.byID[id].Password = hashed
	return nil
}

func newTestService() (*service, *memRepo) {
	repo := newMemRepo()
	return &service{repo: repo, cost: bcrypt.MinCost}, repo
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin", "secret1", "Admin", RoleAdmin)
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		u, err := svc.Login(ctx, "admin", "secret1")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret1")
		assert.Equal(t, ErrInvalidUser, err)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin", "wrong1")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidPassword))
		assert.Equal(t, "Invalid Password.", apperrors.GetAppError(err).Message)
	})
}

func TestService_ChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "staff", "first1", "Staff", "")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, u.Role)

	assert.Equal(t, ErrIncorrectCurrentPassword, svc.ChangePassword(ctx, u.ID, "nope", "second2"))
	assert.Equal(t, ErrWeakPassword, svc.ChangePassword(ctx, u.ID, "first1", "12345678"))
	assert.Equal(t, ErrWeakPassword, svc.ChangePassword(ctx, u.ID, "first1", "ab1"))

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "first1", "second2"))
	_, err = svc.Login(ctx, "staff", "second2")
	assert.NoError(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, validatePasswordStrength("abcdef"))
	assert.NoError(t, validatePasswordStrength("12345a"))
	assert.Error(t, validatePasswordStrength("123456"))
	assert.Error(t, validatePasswordStrength("abc"))
}
