package users

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"fichas_backend/internals/constants"
	userModel "fichas_backend/internals/features/users/user/model"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type AdminSeed struct {
	Email    string
	Password string
	Nombre   string
	Cedula   string
}

// SeedAdmin membuat ADMIN pertama kalau belum ada ADMIN aktif sama sekali.
func SeedAdmin(db *gorm.DB, in AdminSeed) (bool, error) {
	email := helper.NormalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return false, errors.New("SEED_ADMIN_EMAIL dan SEED_ADMIN_PASSWORD wajib diisi")
	}

	var n int64
	if err := db.Model(&userModel.UserModel{}).
		Where("rol = ? AND activo = ?", constants.RoleAdmin, true).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		log.Println("[INFO] ADMIN sudah ada, seed admin dilewati.")
		return false, nil
	}

	hash, err := helperAuth.HashPassword(in.Password)
	if err != nil {
		return false, err
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		nombre = "Administrador"
	}
	cedula := strings.TrimSpace(in.Cedula)
	if cedula == "" {
		cedula = "0000000000"
	}
	u := &userModel.UserModel{
		Email:    email,
		Password: hash,
		Nombre:   nombre,
		Cedula:   cedula,
		Rol:      constants.RoleAdmin,
		Activo:   true,
	}
	if err := db.Create(u).Error; err != nil {
		return false, err
	}
	log.Printf("[SUCCESS] ADMIN %s dibuat", email)
	return true, nil
}
