package domain

import (
	"testing"

	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/testutil"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userDomain := NewUserDomain(repository.NewUserRepository())

	resp, err := userDomain.Register(ctx, &model.RegisterRequest{Name: "newcomer"})
	require.NoError(t, err)
	require.Equal(t, "newcomer", resp.User.Name)
	require.Equal(t, 1, resp.User.Level)

	// The issued token resolves back to the new user.
	accessToken, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, accessToken.ID)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{Name: "newcomer"})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This name has been registered"), err)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty name"), err)
}

func Test_userDomain_GetUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userDomain := NewUserDomain(repository.NewUserRepository())

	// An empty id resolves to the caller.
	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := userDomain.GetUser(userCtx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, resp.Name)

	other, err := userDomain.GetUser(userCtx, &model.GetUserRequest{ID: testutil.User3.ID})
	require.NoError(t, err)
	require.EqualValues(t, testutil.User3.XP, other.XP)
	require.Equal(t, 5, other.Level)

	_, err = userDomain.GetUser(userCtx, &model.GetUserRequest{ID: "not-exists"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}
