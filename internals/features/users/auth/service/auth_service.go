package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"gorm.io/gorm"

	authDTO "fichas_backend/internals/features/users/auth/dto"
	authRepo "fichas_backend/internals/features/users/auth/repository"
	userDTO "fichas_backend/internals/features/users/user/dto"
	userModel "fichas_backend/internals/features/users/user/model"

	"fichas_backend/internals/constants"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

const msgBadCredentials = "Correo o contraseña incorrectos"

// GoogleVerifier memverifikasi Google ID token dan mengembalikan email pemiliknya.
type GoogleVerifier interface {
	VerifyEmail(idToken string) (string, error)
}

type googleIDTokenVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleIDTokenVerifier{clientID: strings.TrimSpace(clientID)}
}

func (g *googleIDTokenVerifier) VerifyEmail(idToken string) (string, error) {
	if g.clientID == "" {
		return "", errors.New("GOOGLE_CLIENT_ID belum diset")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	return claimSet.Email, nil
}

type AuthService struct {
	DB          *gorm.DB
	Tokens      *helperAuth.TokenManager
	Blacklist   *helperAuth.Blacklist
	Google      GoogleVerifier
	EmailDomain string
	Now         func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ========================== LOGIN ==========================
func (s *AuthService) Login(ctx context.Context, req authDTO.LoginRequest) (*authDTO.AuthResponse, error) {
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	user, err := authRepo.FindUserByEmail(ctx, s.DB, req.Email)
	if err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrAuth(msgBadCredentials)
		}
		return nil, helper.ErrInternal("cari user login", err)
	}
	if !helperAuth.CheckPasswordHash(user.Password, req.Password) {
		return nil, helper.ErrAuth(msgBadCredentials)
	}
	if !user.Activo {
		return nil, helper.ErrAuth("Usuario inactivo, contacte al administrador")
	}
	return s.issue(user)
}

// ========================== LOGIN GOOGLE ==========================
// Hanya untuk user yang sudah terdaftar & aktif; tidak membuat akun baru.
func (s *AuthService) LoginGoogle(ctx context.Context, req authDTO.GoogleLoginRequest) (*authDTO.AuthResponse, error) {
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if s.Google == nil {
		return nil, helper.ErrAuth("Inicio de sesión con Google no disponible")
	}
	email, err := s.Google.VerifyEmail(req.IDToken)
	if err != nil {
		log.Printf("[WARN] google id token ditolak: %v", err)
		return nil, helper.ErrAuth("Token de Google inválido")
	}
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrAuth("No existe un usuario registrado con ese correo")
		}
		return nil, helper.ErrInternal("cari user google", err)
	}
	if !user.Activo {
		return nil, helper.ErrAuth("Usuario inactivo, contacte al administrador")
	}
	return s.issue(user)
}

// ========================== REGISTER ==========================
func (s *AuthService) Register(ctx context.Context, req authDTO.RegisterRequest) (*authDTO.AuthResponse, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if !helper.IsInstitutionalEmail(req.Email, s.EmailDomain) {
		return nil, helper.ErrValidation("Debe usar su correo institucional @" + s.EmailDomain)
	}
	if err := helper.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := authRepo.FindCentroByID(ctx, s.DB, req.CentroID); err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrValidation("El centro de formación no existe")
		}
		return nil, helper.ErrInternal("cari centro", err)
	}
	if taken, err := authRepo.EmailTaken(ctx, s.DB, req.Email); err != nil {
		return nil, helper.ErrInternal("cek email", err)
	} else if taken {
		return nil, helper.ErrValidation("El correo ya está registrado")
	}
	if taken, err := authRepo.CedulaTaken(ctx, s.DB, req.Cedula); err != nil {
		return nil, helper.ErrInternal("cek cedula", err)
	} else if taken {
		return nil, helper.ErrValidation("La cédula ya está registrada")
	}

	hash, err := helperAuth.HashPassword(req.Password)
	if err != nil {
		return nil, helper.ErrInternal("hash password", err)
	}
	centroID := req.CentroID
	user := &userModel.UserModel{
		Email:        req.Email,
		Password:     hash,
		Nombre:       req.Nombre,
		Cedula:       req.Cedula,
		Telefono:     req.Telefono,
		Rol:          constants.RoleInstructor,
		Especialidad: req.Especialidad,
		CentroID:     &centroID,
		Activo:       true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, user); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("El correo o la cédula ya están registrados")
		}
		return nil, helper.ErrInternal("create user", err)
	}

	full, err := authRepo.FindUserByID(ctx, s.DB, user.ID)
	if err != nil {
		return nil, helper.ErrInternal("reload user", err)
	}
	return s.issue(full)
}

// ========================== ME ==========================
func (s *AuthService) Me(ctx context.Context, sess *helperAuth.Session) (*userDTO.UserResponse, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, sess.UserID)
	if err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound("Usuario no encontrado")
		}
		return nil, helper.ErrInternal("cari user me", err)
	}
	out := userDTO.FromModel(user)
	return &out, nil
}

// ========================== LOGOUT ==========================
// Token di-blacklist sampai exp aslinya.
func (s *AuthService) Logout(ctx context.Context, sess *helperAuth.Session) error {
	exp := sess.ExpiresAt
	if exp.IsZero() {
		exp = s.now().Add(s.Tokens.TTL())
	}
	if err := s.Blacklist.Add(ctx, sess.Token, exp); err != nil {
		return helper.ErrInternal("blacklist token", err)
	}
	return nil
}

func (s *AuthService) issue(user *userModel.UserModel) (*authDTO.AuthResponse, error) {
	token, exp, err := s.Tokens.Issue(helperAuth.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Rol,
		CentroID: user.CentroUUID(),
	})
	if err != nil {
		return nil, helper.ErrInternal("issue token", err)
	}
	return &authDTO.AuthResponse{
		User:      userDTO.FromModel(user),
		Token:     token,
		ExpiresAt: exp,
	}, nil
}
