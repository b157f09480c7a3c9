package stores

import (
	"context"
	"net/http"
	"slices"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

type DoctorStore struct {
	r *resource[[]models.Doctor]
}

func NewDoctorStore(deps Deps) *DoctorStore {
	empty := func() []models.Doctor { return []models.Doctor{} }
	return &DoctorStore{r: newResource("doctors", deps, empty, slices.Clone[[]models.Doctor])}
}

func (s *DoctorStore) Doctors() []models.Doctor { return s.r.current() }

func (s *DoctorStore) IsLoading() bool { return s.r.loading() }

func (s *DoctorStore) Reset() { s.r.reset() }

func (s *DoctorStore) GetDoctorsData(ctx context.Context) ([]models.Doctor, error) {
	id := s.r.begin()
	defer s.r.end()

	var resp models.DoctorsResponse
	if err := s.r.deps.Client.Do(ctx, http.MethodGet, "/api/doctor/list", nil, &resp); err != nil {
		return s.Doctors(), s.r.fail(ctx, "get doctors", err)
	}
	doctors := slices.Clone(resp.Doctors)
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	s.r.applyIf(ctx, id, doctors)
	return slices.Clone(doctors), nil
}
