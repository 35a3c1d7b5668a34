package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fichas_backend/internals/features/centros/dto"
	"fichas_backend/internals/features/centros/model"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type CentroService struct {
	DB *gorm.DB
}

func NewCentroService(db *gorm.DB) *CentroService {
	return &CentroService{DB: db}
}

// List semua centro (dipakai juga form registrasi), urut nama.
func (s *CentroService) List(ctx context.Context, q string) ([]model.CentroModel, error) {
	db := s.DB.WithContext(ctx).Model(&model.CentroModel{})
	if kw := strings.TrimSpace(q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where("LOWER(nombre) LIKE ? OR LOWER(codigo) LIKE ? OR LOWER(ciudad) LIKE ?", like, like, like)
	}
	var rows []model.CentroModel
	if err := db.Order("nombre ASC").Find(&rows).Error; err != nil {
		return nil, helper.ErrInternal("list centros", err)
	}
	return rows, nil
}

func (s *CentroService) Create(ctx context.Context, sess *helperAuth.Session, req dto.CentroRequest) (*model.CentroModel, error) {
	if !helperAuth.CanAccess(sess, helperAuth.CentroResource{}, helperAuth.ActionManage) {
		return nil, helper.ErrForbidden("Solo administradores pueden crear centros")
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	m := &model.CentroModel{}
	req.Apply(m)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Ya existe un centro con ese código")
		}
		return nil, helper.ErrInternal("simpan centro", err)
	}
	return m, nil
}

func (s *CentroService) Update(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, req dto.CentroRequest) (*model.CentroModel, error) {
	if !helperAuth.CanAccess(sess, helperAuth.CentroResource{ID: id}, helperAuth.ActionManage) {
		return nil, helper.ErrForbidden("Solo administradores pueden modificar centros")
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var m model.CentroModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound("Centro no encontrado")
		}
		return nil, helper.ErrInternal("muat centro", err)
	}
	req.Apply(&m)
	if err := db.Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Ya existe un centro con ese código")
		}
		return nil, helper.ErrInternal("update centro", err)
	}
	return &m, nil
}
