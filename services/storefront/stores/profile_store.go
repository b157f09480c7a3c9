package stores

import (
	"context"
	"net/http"
	"strings"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

type profileEndpoints struct {
	get    string
	update string
}

var endpointsByRole = map[models.Role]profileEndpoints{
	models.RoleStudent: {get: "/api/student/get-profile", update: "/api/student/update-profile"},
	models.RoleDoctor:  {get: "/api/doctor/profile", update: "/api/doctor/update-profile"},
}

// ProfileStore caches the signed-in user's profile. Unknown roles fall back
// to the student endpoints.
type ProfileStore struct {
	r         *resource[*models.Profile]
	role      models.Role
	endpoints profileEndpoints
}

func NewProfileStore(deps Deps, role models.Role) *ProfileStore {
	ep, ok := endpointsByRole[role]
	if !ok {
		role = models.RoleStudent
		ep = endpointsByRole[role]
	}
	return &ProfileStore{
		r:         newResource("profile", deps, func() *models.Profile { return nil }, cloneProfile),
		role:      role,
		endpoints: ep,
	}
}

func cloneProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (s *ProfileStore) Role() models.Role { return s.role }

// Profile returns the cached profile, if one has been loaded.
func (s *ProfileStore) Profile() (models.Profile, bool) {
	p := s.r.current()
	if p == nil {
		return models.Profile{}, false
	}
	return *p, true
}

func (s *ProfileStore) IsLoading() bool { return s.r.loading() }

func (s *ProfileStore) Reset() { s.r.reset() }

// LoadProfileData replaces the cached profile wholesale.
func (s *ProfileStore) LoadProfileData(ctx context.Context) (models.Profile, error) {
	id := s.r.begin()
	defer s.r.end()

	var resp models.ProfileResponse
	if err := s.r.deps.Client.Do(ctx, http.MethodGet, s.endpoints.get, nil, &resp); err != nil {
		return models.Profile{}, s.r.fail(ctx, "load profile", err)
	}
	p := resp.Profile()
	if p == nil {
		return models.Profile{}, s.r.fail(ctx, "load profile", missing("userData"))
	}
	s.r.applyIf(ctx, id, cloneProfile(p))
	return *p, nil
}

// UpdateProfile sends the full record, then reloads it.
func (s *ProfileStore) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	const op = "update profile"
	if strings.TrimSpace(profile.Name) == "" {
		return models.Profile{}, s.r.invalid(ctx, op, "Name is required")
	}

	var resp models.Envelope
	s.r.track()
	err := s.r.deps.Client.Do(ctx, http.MethodPost, s.endpoints.update, profile, &resp)
	s.r.end()
	if err != nil {
		return models.Profile{}, s.r.fail(ctx, op, err)
	}
	s.r.notify(ctx, successOr(resp.Message, "Profile updated"))
	return s.LoadProfileData(ctx)
}
