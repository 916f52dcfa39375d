package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

type profileFixture struct {
	svc      *ProfileService
	repo     *stubSurveyorRepo
	activity *stubActivityRepo
	creds    *CredentialService
	id       int64
}

func newProfileFixture(t *testing.T, known ...string) *profileFixture {
	t.Helper()
	f := &profileFixture{
		repo:     newStubSurveyorRepo(known...),
		activity: &stubActivityRepo{},
		creds:    NewCredentialService(CredentialConfig{Secret: "secret"}),
	}
	hash, err := f.creds.Hash("oldpass1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := f.repo.Create(context.Background(), &domain.Surveyor{Email: "owner@example.com", PasswordHash: hash}, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	f.id = u.ID
	f.svc = NewProfileService(f.repo, f.creds, f.activity, zerolog.Nop())
	return f
}

func TestProfileService_ReplaceServices_SubsetSemantics(t *testing.T) {
	f := newProfileFixture(t, "Property Line Survey")

	n, err := f.svc.ReplaceServices(context.Background(), f.id, []string{"Boundary Surveys"}, []string{"Property Line Survey", "Moon Survey"})
	if err != nil {
		t.Fatalf("ReplaceServices returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 written, got %d", n)
	}

	p, _ := f.svc.Get(context.Background(), f.id)
	if len(p.Services) != 1 || p.Services[0].Name != "Property Line Survey" {
		t.Fatalf("unexpected services: %+v", p.Services)
	}
	if f.activity.events[0].Details["written"] != 1 {
		t.Fatalf("expected activity to record written count, got %+v", f.activity.events[0].Details)
	}
}

func TestProfileService_ReplaceAreas_EmptyClears(t *testing.T) {
	f := newProfileFixture(t, "Travis")
	if _, err := f.svc.ReplaceAreas(context.Background(), f.id, []string{"Travis"}); err != nil {
		t.Fatalf("seed areas: %v", err)
	}

	n, err := f.svc.ReplaceAreas(context.Background(), f.id, []string{})
	if err != nil {
		t.Fatalf("ReplaceAreas returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 written, got %d", n)
	}
	p, _ := f.svc.Get(context.Background(), f.id)
	if len(p.Counties) != 0 {
		t.Fatalf("expected no counties, got %+v", p.Counties)
	}
}

func TestProfileService_ReplaceAreas_StoreFailure(t *testing.T) {
	f := newProfileFixture(t, "Travis")
	f.repo.failWith = errStoreDown

	if _, err := f.svc.ReplaceAreas(context.Background(), f.id, []string{"Travis"}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(f.activity.events) != 0 {
		t.Fatalf("failed writes must not be recorded")
	}
}

func TestProfileService_ChangePassword(t *testing.T) {
	f := newProfileFixture(t)

	if err := f.svc.ChangePassword(context.Background(), f.id, "wrongpass", "newpass1"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if domain.KindOf(domain.ErrWrongPassword).Status() != 401 {
		t.Fatalf("wrong current password must map to 401")
	}

	if err := f.svc.ChangePassword(context.Background(), f.id, "oldpass1", "newpass1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	u, _ := f.repo.FindByID(context.Background(), f.id)
	if !f.creds.Verify("newpass1", u.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
	if f.creds.Verify("oldpass1", u.PasswordHash) {
		t.Fatalf("old password still verifies")
	}
}

func TestProfileService_UpdateInfo(t *testing.T) {
	f := newProfileFixture(t)

	err := f.svc.UpdateInfo(context.Background(), f.id, ports.UpdateInfoInput{})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	city := "Round Rock"
	if err := f.svc.UpdateInfo(context.Background(), f.id, ports.UpdateInfoInput{City: &city}); err != nil {
		t.Fatalf("UpdateInfo returned error: %v", err)
	}
	u, _ := f.repo.FindByID(context.Background(), f.id)
	if u.City != city {
		t.Fatalf("expected city %q, got %q", city, u.City)
	}

	if err := f.svc.UpdateInfo(context.Background(), 999, ports.UpdateInfoInput{City: &city}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileService_Delete(t *testing.T) {
	f := newProfileFixture(t)

	if err := f.svc.Delete(context.Background(), f.id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
}

func TestProfileService_List(t *testing.T) {
	f := newProfileFixture(t)

	if _, err := f.svc.List(context.Background(), 0, 10); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for page 0, got %v", err)
	}

	page, err := f.svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page.Data) != 1 || page.Pagination.Total != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
