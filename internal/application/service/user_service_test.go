package service

import (
	"testing"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Lifecycle(t *testing.T) {
	clock := &fixedClock{now: date(2024, time.March, 1)}
	users := NewUserService(memory.NewUserRepository(memory.NewStore()), clock)

	hired := clock.now
	ana, err := users.CreateOperator(ctx, &CreateOperatorInput{Name: "Ana", PIN: "1234", ValidFrom: &hired})
	require.NoError(t, err)
	assert.Equal(t, enum.UserRoleCashier, ana.Role)
	assert.True(t, utils.CheckPINHash("1234", ana.PINHash))

	_, err = users.CreateOperator(ctx, &CreateOperatorInput{Name: "Ana", PIN: "9999", ValidFrom: &hired})
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)

	clock.now = clock.now.Add(48 * time.Hour)
	manager := enum.UserRoleManager
	promoted, err := users.UpdateOperator(ctx, ana.ID, &UpdateOperatorInput{Role: &manager})
	require.NoError(t, err)
	assert.True(t, promoted.IsManager())
	assert.Equal(t, ana.PINHash, promoted.PINHash)

	history, err := users.History(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, clock.now, *history[0].ValidTo)

	// The superseded version can no longer be changed.
	_, err = users.UpdateOperator(ctx, ana.ID, &UpdateOperatorInput{Role: &manager})
	assert.Error(t, err)

	clock.now = clock.now.Add(time.Hour)
	_, err = users.ArchiveOperator(ctx, promoted.ID)
	require.NoError(t, err)
	_, err = users.ArchiveOperator(ctx, promoted.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyArchived)

	active, err := users.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAuthService_Login(t *testing.T) {
	clock := &fixedClock{now: date(2024, time.March, 1)}
	repo := memory.NewUserRepository(memory.NewStore())
	users := NewUserService(repo, clock)
	auth := NewAuthService(repo, utils.NewJWTManager("secret", time.Hour, time.Hour), clock)

	ana, err := users.CreateOperator(ctx, &CreateOperatorInput{Name: "Ana", PIN: "1234", Role: enum.UserRoleManager})
	require.NoError(t, err)

	out, err := auth.Login(ctx, &LoginInput{Name: "Ana", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, ana.ID, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, refreshed.User.ID)

	_, err = auth.Login(ctx, &LoginInput{Name: "Ana", PIN: "0000"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = auth.Login(ctx, &LoginInput{Name: "Nobody", PIN: "1234"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = users.ArchiveOperator(ctx, ana.ID)
	require.NoError(t, err)
	_, err = auth.Login(ctx, &LoginInput{Name: "Ana", PIN: "1234"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = auth.GetCurrentUser(ctx, ana.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestContextUserProvider(t *testing.T) {
	repo := memory.NewUserRepository(memory.NewStore())
	users := NewUserService(repo, &fixedClock{now: date(2024, time.March, 1)})
	ana, err := users.CreateOperator(ctx, &CreateOperatorInput{Name: "Ana", PIN: "1234"})
	require.NoError(t, err)

	provider := NewContextUserProvider(repo)
	_, err = provider.CurrentUser(ctx)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	user, err := provider.CurrentUser(WithUserID(ctx, ana.ID))
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
}

func TestUserService_RejectsChangesAtOrBeforeStart(t *testing.T) {
	clock := &fixedClock{now: date(2024, time.March, 1)}
	users := NewUserService(memory.NewUserRepository(memory.NewStore()), clock)

	hired := clock.now
	ana, err := users.CreateOperator(ctx, &CreateOperatorInput{Name: "Ana", PIN: "1234", ValidFrom: &hired})
	require.NoError(t, err)
	pin := "5678"
	_, err = users.UpdateOperator(ctx, ana.ID, &UpdateOperatorInput{PIN: &pin})
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)

	later := clock.now.AddDate(0, 1, 0)
	bo, err := users.CreateOperator(ctx, &CreateOperatorInput{Name: "Bo", PIN: "4321", ValidFrom: &later})
	require.NoError(t, err)
	_, err = users.ArchiveOperator(ctx, bo.ID)
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)

	for _, name := range []string{"Ana", "Bo"} {
		history, err := users.History(ctx, name)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Nil(t, history[0].ValidTo)
	}
}
