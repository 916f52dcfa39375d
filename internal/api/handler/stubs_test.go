package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Surveyor, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Surveyor, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubProfileService struct {
	profile *domain.Profile
	err     error

	gotID       int64
	gotUpdate   ports.UpdateInfoInput
	gotCurrent  string
	gotNext     string
	gotMain     []string
	gotSub      []string
	gotCounties []string
	gotPage     int
	gotLimit    int
	written     int
}

func (s *stubProfileService) Get(_ context.Context, id int64) (*domain.Profile, error) {
	s.gotID = id
	return s.profile, s.err
}

func (s *stubProfileService) UpdateInfo(_ context.Context, id int64, in ports.UpdateInfoInput) error {
	s.gotID, s.gotUpdate = id, in
	return s.err
}

func (s *stubProfileService) ChangePassword(_ context.Context, id int64, current, next string) error {
	s.gotID, s.gotCurrent, s.gotNext = id, current, next
	return s.err
}

func (s *stubProfileService) ReplaceServices(_ context.Context, id int64, main, sub []string) (int, error) {
	s.gotID, s.gotMain, s.gotSub = id, main, sub
	return s.written, s.err
}

func (s *stubProfileService) ReplaceAreas(_ context.Context, id int64, counties []string) (int, error) {
	s.gotID, s.gotCounties = id, counties
	return s.written, s.err
}

func (s *stubProfileService) Delete(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}

func (s *stubProfileService) List(_ context.Context, page, limit int) (*domain.Page[domain.Surveyor], error) {
	s.gotPage, s.gotLimit = page, limit
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Page[domain.Surveyor]{
		Data:       []domain.Surveyor{{ID: 1, FirstName: "Ada"}},
		Pagination: domain.NewPagination(page, limit, 1),
	}, nil
}

type stubReferenceService struct {
	categories []domain.ServiceCategory
	counties   []domain.County
	err        error
}

func (s *stubReferenceService) ServiceCategories(context.Context) ([]domain.ServiceCategory, error) {
	return s.categories, s.err
}

func (s *stubReferenceService) Counties(context.Context) ([]domain.County, error) {
	return s.counties, s.err
}

type stubQueue struct {
	msgs []domain.EmailMessage
	err  error
}

func (q *stubQueue) Enqueue(msg domain.EmailMessage) error {
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

// newContext builds an echo context with the production validator attached.
// A non-empty id is set as the :id path parameter.
func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}
