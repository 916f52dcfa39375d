package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory surveyor store
// ---------------------------------------------------------------------------

type stubSurveyorRepo struct {
	nextID   int64
	byID     map[int64]*domain.Surveyor
	services map[int64][]string
	counties map[int64][]string
	known    map[string]bool // reference names that resolve
	failWith error
	lastMain []string
}

func newStubSurveyorRepo(known ...string) *stubSurveyorRepo {
	r := &stubSurveyorRepo{
		byID:     make(map[int64]*domain.Surveyor),
		services: make(map[int64][]string),
		counties: make(map[int64][]string),
		known:    make(map[string]bool),
	}
	for _, k := range known {
		r.known[k] = true
	}
	return r
}

func cloneSurveyor(s *domain.Surveyor) *domain.Surveyor {
	c := *s
	return &c
}

func (r *stubSurveyorRepo) resolve(names []string) []string {
	out := []string{}
	for _, n := range names {
		if r.known[n] {
			out = append(out, n)
		}
	}
	return out
}

func (r *stubSurveyorRepo) FindByID(_ context.Context, id int64) (*domain.Surveyor, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneSurveyor(s), nil
}

func (r *stubSurveyorRepo) FindByEmail(_ context.Context, email string) (*domain.Surveyor, error) {
	for _, s := range r.byID {
		if s.Email == strings.ToLower(email) {
			return cloneSurveyor(s), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubSurveyorRepo) GetProfile(_ context.Context, id int64) (*domain.Profile, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	p := &domain.Profile{Surveyor: *s, Services: []domain.ServiceOffering{}, Counties: []domain.County{}}
	p.PasswordHash = ""
	for _, n := range r.services[id] {
		p.Services = append(p.Services, domain.ServiceOffering{Name: n})
	}
	for _, n := range r.counties[id] {
		p.Counties = append(p.Counties, domain.County{Name: n})
	}
	return p, nil
}

func (r *stubSurveyorRepo) List(_ context.Context, page, limit int) (*domain.Page[domain.Surveyor], error) {
	all := make([]domain.Surveyor, 0, len(r.byID))
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.byID[id]; ok {
			all = append(all, *s)
		}
	}
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return &domain.Page[domain.Surveyor]{
		Data:       all[start:end],
		Pagination: domain.NewPagination(page, limit, int64(len(all))),
	}, nil
}

func (r *stubSurveyorRepo) Create(_ context.Context, s *domain.Surveyor, defaults []string) (*domain.Surveyor, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	email := strings.ToLower(s.Email)
	for _, existing := range r.byID {
		if existing.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	c := cloneSurveyor(s)
	c.ID = r.nextID
	c.Email = email
	c.CreatedAt = time.Now().UTC()
	r.byID[c.ID] = c
	r.counties[c.ID] = r.resolve(defaults)
	return cloneSurveyor(c), nil
}

func (r *stubSurveyorRepo) UpdateInfo(_ context.Context, id int64, in ports.UpdateInfoInput) error {
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if in.City != nil {
		s.City = *in.City
	}
	if in.Email != nil {
		s.Email = strings.ToLower(*in.Email)
	}
	return nil
}

func (r *stubSurveyorRepo) ChangePassword(_ context.Context, id int64, rehash ports.RehashFunc) error {
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	next, err := rehash(s.PasswordHash)
	if err != nil {
		return err
	}
	s.PasswordHash = next
	return nil
}

func (r *stubSurveyorRepo) ReplaceServices(_ context.Context, id int64, names []string) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	if _, ok := r.byID[id]; !ok {
		return 0, domain.ErrUserNotFound
	}
	r.services[id] = r.resolve(names)
	return len(r.services[id]), nil
}

func (r *stubSurveyorRepo) ReplaceCounties(_ context.Context, id int64, names []string) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	if _, ok := r.byID[id]; !ok {
		return 0, domain.ErrUserNotFound
	}
	r.counties[id] = r.resolve(names)
	return len(r.counties[id]), nil
}

func (r *stubSurveyorRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.services, id)
	delete(r.counties, id)
	return nil
}

// ---------------------------------------------------------------------------
// Activity log and mail queue
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	err    error
	events []*domain.Activity
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.Activity) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, a)
	return nil
}

func (r *stubActivityRepo) types() []domain.ActivityType {
	out := make([]domain.ActivityType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type stubQueue struct {
	err  error
	msgs []domain.EmailMessage
}

func (q *stubQueue) Enqueue(msg domain.EmailMessage) error {
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

var errStoreDown = errors.New("store unavailable")
