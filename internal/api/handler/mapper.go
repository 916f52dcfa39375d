package handler

import (
	"strings"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// --- Normalization (runs before validation) ---

func (r *loginRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r *registerRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.ToUpper(strings.TrimSpace(r.State))
	r.ZipCode = strings.TrimSpace(r.ZipCode)
}

func (r *updateInfoRequest) normalize() {
	trim(r.FirstName)
	trim(r.LastName)
	trim(r.CompanyName)
	trim(r.Phone)
	trim(r.Address)
	trim(r.City)
	trim(r.ZipCode)
	if r.Email != nil {
		*r.Email = normalizeEmail(*r.Email)
	}
	if r.State != nil {
		*r.State = strings.ToUpper(strings.TrimSpace(*r.State))
	}
}

func (r *sendEmailRequest) normalize() {
	r.To = strings.TrimSpace(r.To)
	r.Subject = strings.TrimSpace(r.Subject)
}

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		CompanyName:     req.CompanyName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
	}
}

func toUpdateInfoInput(req updateInfoRequest) ports.UpdateInfoInput {
	return ports.UpdateInfoInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
	}
}

func toEmailMessage(req sendEmailRequest) domain.EmailMessage {
	return domain.EmailMessage{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
