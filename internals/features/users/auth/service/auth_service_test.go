package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fichas_backend/internals/constants"
	authDTO "fichas_backend/internals/features/users/auth/dto"
	"fichas_backend/internals/features/users/auth/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/testutil"
)

const secret = "test-secret-0123456789"

type fakeGoogle struct {
	email string
	err   error
}

func (f fakeGoogle) VerifyEmail(string) (string, error) { return f.email, f.err }

func newAuth(w *testutil.World) *service.AuthService {
	return &service.AuthService{
		DB:          w.DB,
		Tokens:      helperAuth.NewTokenManager(secret, 30*24*time.Hour),
		Blacklist:   helperAuth.NewBlacklist(w.DB, secret),
		EmailDomain: testutil.EmailDomain,
	}
}

func TestLogin(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newAuth(w)
	ctx := testutil.Ctx()

	res, err := svc.Login(ctx, authDTO.LoginRequest{Email: strings.ToUpper(w.Coordinador.Email), Password: testutil.DefaultPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, constants.RoleCoordinador, res.User.Rol)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), res.ExpiresAt, time.Minute)

	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	sess, err := claims.Session(res.Token)
	require.NoError(t, err)
	assert.Equal(t, w.Coordinador.ID, sess.UserID)
	assert.Equal(t, w.Centro.ID, sess.CentroID)

	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: w.Coordinador.Email, Password: "otraClave99"})
	assert.True(t, helper.IsKind(err, helper.KindAuth))
	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: "nadie@sena.edu.co", Password: "x"})
	assert.True(t, helper.IsKind(err, helper.KindAuth))

	require.NoError(t, w.DB.Model(w.Instructor).Update("activo", false).Error)
	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: w.Instructor.Email, Password: testutil.DefaultPassword})
	assert.True(t, helper.IsKind(err, helper.KindAuth))
}

func TestLoginGoogle_ExistingUsersOnly(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newAuth(w)
	ctx := testutil.Ctx()
	req := authDTO.GoogleLoginRequest{IDToken: "id-token"}

	_, err := svc.LoginGoogle(ctx, req)
	assert.True(t, helper.IsKind(err, helper.KindAuth), "verifier belum dipasang")

	svc.Google = fakeGoogle{email: w.Instructor.Email}
	res, err := svc.LoginGoogle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, w.Instructor.ID, res.User.ID)

	svc.Google = fakeGoogle{email: "desconocido@sena.edu.co"}
	_, err = svc.LoginGoogle(ctx, req)
	assert.True(t, helper.IsKind(err, helper.KindAuth))

	svc.Google = fakeGoogle{err: errors.New("bad audience")}
	_, err = svc.LoginGoogle(ctx, req)
	assert.True(t, helper.IsKind(err, helper.KindAuth))
}

func TestRegister(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newAuth(w)
	ctx := testutil.Ctx()

	req := authDTO.RegisterRequest{
		Email:    " Nuevo.Instructor@SENA.edu.co ",
		Password: "Clave2025x",
		Nombre:   "Nuevo Instructor",
		Cedula:   "80123456",
		CentroID: w.Centro.ID,
	}
	res, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "nuevo.instructor@sena.edu.co", res.User.Email)
	assert.Equal(t, constants.RoleInstructor, res.User.Rol)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Register(ctx, req)
	assert.True(t, helper.IsKind(err, helper.KindValidation), "correo duplicado")

	other := req
	other.Email = "alguien@gmail.com"
	other.Cedula = "80999999"
	_, err = svc.Register(ctx, other)
	assert.True(t, helper.IsKind(err, helper.KindValidation), "dominio no institucional")

	weak := req
	weak.Email = "debil@sena.edu.co"
	weak.Cedula = "80888888"
	weak.Password = "solamenteletras"
	_, err = svc.Register(ctx, weak)
	assert.True(t, helper.IsKind(err, helper.KindValidation))
}

func TestLogoutBlacklistsToken(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newAuth(w)
	ctx := testutil.Ctx()

	res, err := svc.Login(ctx, authDTO.LoginRequest{Email: w.Instructor.Email, Password: testutil.DefaultPassword})
	require.NoError(t, err)
	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	sess, err := claims.Session(res.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess))
	listed, err := svc.Blacklist.IsBlacklisted(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestChangePassword(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newAuth(w)
	ctx := testutil.Ctx()
	sess := testutil.Session(w.Instructor)

	err := svc.ChangePassword(ctx, sess, authDTO.ChangePasswordRequest{CurrentPassword: "incorrecta1", NewPassword: "Nueva2025x"})
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, sess, authDTO.ChangePasswordRequest{
		CurrentPassword: testutil.DefaultPassword, NewPassword: "Nueva2025x",
	}))
	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: w.Instructor.Email, Password: "Nueva2025x"})
	require.NoError(t, err)
}
