package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

func TestDirectoryHandler_List_Defaults(t *testing.T) {
	svc := &stubProfileService{}
	c, rec := newContext(http.MethodGet, "/api/surveyors", "", "")

	if err := NewDirectoryHandler(svc, &stubReferenceService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.gotPage != 1 || svc.gotLimit != 10 {
		t.Fatalf("defaults not applied: page=%d limit=%d", svc.gotPage, svc.gotLimit)
	}

	var page domain.Page[domain.Surveyor]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(page.Data) != 1 || page.Pagination.Total != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestDirectoryHandler_List_QueryParams(t *testing.T) {
	svc := &stubProfileService{}
	c, _ := newContext(http.MethodGet, "/api/surveyors?page=3&limit=25", "", "")

	if err := NewDirectoryHandler(svc, &stubReferenceService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.gotPage != 3 || svc.gotLimit != 25 {
		t.Fatalf("got page=%d limit=%d", svc.gotPage, svc.gotLimit)
	}
}

func TestDirectoryHandler_List_InvalidParams(t *testing.T) {
	for _, q := range []string{"page=0", "page=x", "limit=0", "limit=101", "page=9223372036854775807&limit=100", "page=21474837"} {
		svc := &stubProfileService{}
		c, _ := newContext(http.MethodGet, "/api/surveyors?"+q, "", "")

		err := NewDirectoryHandler(svc, &stubReferenceService{}).List(c)
		if domain.KindOf(err) != domain.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", q, err)
		}
	}
}

func TestDirectoryHandler_Reference(t *testing.T) {
	ref := &stubReferenceService{
		categories: []domain.ServiceCategory{{ID: 1, Name: "Boundary"}},
		counties:   []domain.County{{ID: 1, Name: "Travis", State: "TX"}, {ID: 2, Name: "Hays", State: "TX"}},
	}
	h := NewDirectoryHandler(&stubProfileService{}, ref)

	c, rec := newContext(http.MethodGet, "/api/reference/services", "", "")
	if err := h.ServiceCategories(c); err != nil {
		t.Fatalf("services: %v", err)
	}
	var cats []domain.ServiceCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil || len(cats) != 1 {
		t.Fatalf("unexpected categories %s", rec.Body.String())
	}

	c, rec = newContext(http.MethodGet, "/api/reference/counties", "", "")
	if err := h.Counties(c); err != nil {
		t.Fatalf("counties: %v", err)
	}
	var counties []domain.County
	if err := json.Unmarshal(rec.Body.Bytes(), &counties); err != nil || len(counties) != 2 {
		t.Fatalf("unexpected counties %s", rec.Body.String())
	}
}

func TestDirectoryHandler_List_LargestPage(t *testing.T) {
	svc := &stubProfileService{}
	c, _ := newContext(http.MethodGet, "/api/surveyors?page=21474836&limit=100", "", "")

	if err := NewDirectoryHandler(svc, &stubReferenceService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.gotPage != 21474836 {
		t.Fatalf("got page=%d", svc.gotPage)
	}
}
