package helper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"fichas_backend/internals/constants"
)

func sess(role string, centro uuid.UUID) *Session {
	return &Session{UserID: uuid.New(), Role: role, CentroID: centro}
}

func TestCanAccess_Solicitud(t *testing.T) {
	centroA, centroB := uuid.New(), uuid.New()
	admin := sess(constants.RoleAdmin, uuid.Nil)
	coord := sess(constants.RoleCoordinador, centroA)
	owner := sess(constants.RoleInstructor, centroA)
	other := sess(constants.RoleInstructor, centroA)

	own := SolicitudResource{InstructorID: owner.UserID, CentroID: centroA}
	foreign := SolicitudResource{InstructorID: uuid.New(), CentroID: centroB}

	tests := []struct {
		name string
		s    *Session
		res  SolicitudResource
		act  Action
		want bool
	}{
		{"admin reads any", admin, foreign, ActionRead, true},
		{"admin reviews any", admin, foreign, ActionReview, true},
		{"admin cannot edit", admin, own, ActionEdit, false},
		{"coord reads own centro", coord, own, ActionRead, true},
		{"coord reviews own centro", coord, own, ActionReview, true},
		{"coord other centro", coord, foreign, ActionRead, false},
		{"coord cannot edit", coord, own, ActionEdit, false},
		{"owner reads", owner, own, ActionRead, true},
		{"owner edits", owner, own, ActionEdit, true},
		{"owner cannot review", owner, own, ActionReview, false},
		{"other instructor", other, own, ActionRead, false},
		{"instructor creates in own centro", owner, SolicitudResource{CentroID: centroA}, ActionCreate, true},
		{"instructor creates in other centro", owner, SolicitudResource{CentroID: centroB}, ActionCreate, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccess(tc.s, tc.res, tc.act))
		})
	}
}

func TestCanAccess_User(t *testing.T) {
	centroA, centroB := uuid.New(), uuid.New()
	coord := sess(constants.RoleCoordinador, centroA)
	instr := sess(constants.RoleInstructor, centroA)

	assert.True(t, CanAccess(coord, UserResource{ID: uuid.New(), CentroID: centroA, Role: constants.RoleInstructor}, ActionManage))
	assert.False(t, CanAccess(coord, UserResource{ID: uuid.New(), CentroID: centroA, Role: constants.RoleCoordinador}, ActionManage))
	assert.False(t, CanAccess(coord, UserResource{ID: uuid.New(), CentroID: centroB, Role: constants.RoleInstructor}, ActionRead))
	assert.True(t, CanAccess(instr, UserResource{ID: instr.UserID, CentroID: centroA}, ActionEdit))
	assert.False(t, CanAccess(instr, UserResource{ID: uuid.New(), CentroID: centroA}, ActionRead))
}

func TestCanAccess_ProgramaAndCentro(t *testing.T) {
	centroA, centroB := uuid.New(), uuid.New()
	coord := sess(constants.RoleCoordinador, centroA)
	instr := sess(constants.RoleInstructor, centroA)
	admin := sess(constants.RoleAdmin, uuid.Nil)

	assert.True(t, CanAccess(coord, ProgramaResource{CentroID: centroA}, ActionManage))
	assert.False(t, CanAccess(coord, ProgramaResource{CentroID: centroB}, ActionRead))
	assert.True(t, CanAccess(instr, ProgramaResource{CentroID: centroA}, ActionRead))
	assert.False(t, CanAccess(instr, ProgramaResource{CentroID: centroA}, ActionManage))

	assert.True(t, CanAccess(instr, CentroResource{ID: centroB}, ActionRead))
	assert.False(t, CanAccess(coord, CentroResource{ID: centroA}, ActionManage))
	assert.True(t, CanAccess(admin, CentroResource{ID: centroA}, ActionManage))
}

func TestCanAccess_NoSession(t *testing.T) {
	assert.False(t, CanAccess(nil, CentroResource{}, ActionRead))
	assert.False(t, CanAccess(&Session{}, CentroResource{}, ActionRead))
}
