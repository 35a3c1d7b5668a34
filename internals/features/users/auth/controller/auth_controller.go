package controller

import (
	"github.com/gofiber/fiber/v2"

	authDTO "fichas_backend/internals/features/users/auth/dto"
	"fichas_backend/internals/features/users/auth/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

// POST /auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	res, err := ac.Svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Inicio de sesión exitoso", res)
}

// POST /auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	res, err := ac.Svc.LoginGoogle(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Inicio de sesión exitoso", res)
}

// POST /auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	res, err := ac.Svc.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Registro exitoso", res)
}

// GET /auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	user, err := ac.Svc.Me(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{"user": user})
}

// POST /auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	if err := ac.Svc.Logout(c.UserContext(), sess); err != nil {
		return err
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Sesión cerrada", nil)
}

// POST /auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req authDTO.ChangePasswordRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), sess, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Contraseña actualizada", nil)
}
