package stores_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/stores"
)

func TestProfileStore_LoadStudent(t *testing.T) {
	f := newFixture(t, 500)
	f.srv.SetProfile(models.Profile{ID: testUser, Name: "Ann", Email: "ann@uni.lk"})
	store := stores.NewProfileStore(f.deps, models.RoleStudent)

	_, ok := store.Profile()
	assert.False(t, ok)

	p, err := store.LoadProfileData(f.ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	cached, ok := store.Profile()
	assert.True(t, ok)
	assert.Equal(t, testUser, cached.ID)
	assert.Equal(t, 1, f.srv.Count(http.MethodGet, "/api/student/get-profile"))
}

func TestProfileStore_DoctorRoleUsesDoctorEndpoints(t *testing.T) {
	f := newFixture(t, 500)
	f.srv.SetProfile(models.Profile{ID: testUser, Name: "Dr. Perera", Fees: 3000})
	store := stores.NewProfileStore(f.deps, models.RoleDoctor)

	p, err := store.LoadProfileData(f.ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3000, p.Fees)
	assert.Equal(t, 1, f.srv.Count(http.MethodGet, "/api/doctor/profile"))
}

func TestProfileStore_UnknownRoleFallsBackToStudent(t *testing.T) {
	f := newFixture(t, 500)
	store := stores.NewProfileStore(f.deps, models.Role("admin"))
	assert.Equal(t, models.RoleStudent, store.Role())
}

func TestProfileStore_UpdateSendsFullRecordThenReloads(t *testing.T) {
	f := newFixture(t, 500)
	f.srv.SetProfile(models.Profile{ID: testUser, Name: "Ann", Phone: "0711"})
	store := stores.NewProfileStore(f.deps, models.RoleStudent)
	p, _ := store.LoadProfileData(f.ctx)

	p.Address = models.Address{Line1: "12 Lake Rd", Line2: "Kandy"}
	updated, err := store.UpdateProfile(f.ctx, p)
	assert.NoError(t, err)
	assert.Equal(t, "Kandy", updated.Address.Line2)
	assert.Equal(t, "0711", updated.Phone)

	var sent map[string]any
	for _, r := range f.srv.Requests() {
		if r.Route == "/api/student/update-profile" {
			assert.NoError(t, json.Unmarshal(r.Body, &sent))
		}
	}
	assert.Equal(t, "Ann", sent["name"])
	assert.Equal(t, "0711", sent["phone"])
	assert.Contains(t, f.notices.messages(), "Profile Updated")
	assert.Equal(t, 2, f.srv.Count(http.MethodGet, "/api/student/get-profile"))
}

func TestProfileStore_UpdateRequiresName(t *testing.T) {
	f := newFixture(t, 500)
	store := stores.NewProfileStore(f.deps, models.RoleStudent)

	_, err := store.UpdateProfile(f.ctx, models.Profile{ID: testUser})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, f.srv.Requests())
}

func TestDoctorStore_GetDoctorsData(t *testing.T) {
	f := newFixture(t, 500)
	f.srv.SetDoctors(
		models.Doctor{ID: "d1", Name: "Dr. Silva", Speciality: "Counselling", Available: true},
		models.Doctor{ID: "d2", Name: "Dr. Fernando", Speciality: "Psychiatry"},
	)
	store := stores.NewDoctorStore(f.deps)

	doctors, err := store.GetDoctorsData(f.ctx)
	assert.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Len(t, store.Doctors(), 2)

	store.Reset()
	assert.Empty(t, store.Doctors())
}

func TestDoctorStore_FailureKeepsList(t *testing.T) {
	f := newFixture(t, 500)
	f.srv.SetDoctors(models.Doctor{ID: "d1"})
	store := stores.NewDoctorStore(f.deps)
	_, _ = store.GetDoctorsData(f.ctx)

	f.srv.Fail(http.MethodGet, "/api/doctor/list", 1, http.StatusBadGateway, "")
	_, err := store.GetDoctorsData(f.ctx)

	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	assert.Len(t, store.Doctors(), 1)
}
