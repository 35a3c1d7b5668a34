package service

import (
	"context"

	authDTO "fichas_backend/internals/features/users/auth/dto"
	authRepo "fichas_backend/internals/features/users/auth/repository"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

// ========================== CHANGE PASSWORD ==========================
func (s *AuthService) ChangePassword(ctx context.Context, sess *helperAuth.Session, req authDTO.ChangePasswordRequest) error {
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}
	if err := helper.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := authRepo.FindUserByID(ctx, s.DB, sess.UserID)
	if err != nil {
		if helper.IsNotFound(err) {
			return helper.ErrNotFound("Usuario no encontrado")
		}
		return helper.ErrInternal("cari user", err)
	}
	if !helperAuth.CheckPasswordHash(user.Password, req.CurrentPassword) {
		return helper.ErrValidation("La contraseña actual es incorrecta")
	}
	if req.CurrentPassword == req.NewPassword {
		return helper.ErrValidation("La nueva contraseña debe ser diferente a la actual")
	}

	hash, err := helperAuth.HashPassword(req.NewPassword)
	if err != nil {
		return helper.ErrInternal("hash password", err)
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, user.ID, hash); err != nil {
		return helper.ErrInternal("update password", err)
	}
	return nil
}
