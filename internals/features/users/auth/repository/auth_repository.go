package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	centroModel "fichas_backend/internals/features/centros/model"
	userModel "fichas_backend/internals/features/users/user/model"
	helper "fichas_backend/internals/helpers"
)

/* ====================== USER ====================== */

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Preload("Centro").
		Where("email = ?", helper.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Preload("Centro").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Omit("Centro").Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hashed string) error {
	return db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hashed).Error
}

// EmailTaken / CedulaTaken hanya melihat baris yang belum dihapus (soft delete scope).
func EmailTaken(ctx context.Context, db *gorm.DB, email string, exceptID ...uuid.UUID) (bool, error) {
	q := db.WithContext(ctx).Model(&userModel.UserModel{}).Where("email = ?", helper.NormalizeEmail(email))
	if len(exceptID) > 0 {
		q = q.Where("id <> ?", exceptID[0])
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func CedulaTaken(ctx context.Context, db *gorm.DB, cedula string, exceptID ...uuid.UUID) (bool, error) {
	q := db.WithContext(ctx).Model(&userModel.UserModel{}).Where("cedula = ?", cedula)
	if len(exceptID) > 0 {
		q = q.Where("id <> ?", exceptID[0])
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func FindCentroByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*centroModel.CentroModel, error) {
	var c centroModel.CentroModel
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func FindCentroByCodigo(ctx context.Context, db *gorm.DB, codigo string) (*centroModel.CentroModel, error) {
	var c centroModel.CentroModel
	if err := db.WithContext(ctx).First(&c, "codigo = ?", codigo).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
