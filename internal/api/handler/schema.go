package handler

import "github.com/landsurveyors/directory-api/internal/core/domain"

// errorResponse documents the error envelope written by the HTTP error handler.
type errorResponse struct {
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	Timestamp string              `json:"timestamp"`
	Path      string              `json:"path"`
	Errors    []domain.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      *domain.Surveyor `json:"user"`
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expiresIn"`
}

type registerRequest struct {
	FirstName       string `json:"firstName"       validate:"required,max=100"`
	LastName        string `json:"lastName"        validate:"required,max=100"`
	CompanyName     string `json:"companyName"     validate:"omitempty,max=200"`
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=8,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone"           validate:"omitempty,max=20"`
	Address         string `json:"address"         validate:"required,max=255"`
	City            string `json:"city"            validate:"required,max=100"`
	State           string `json:"state"           validate:"required,len=2,alpha"`
	ZipCode         string `json:"zipCode"         validate:"required,zipcode"`
}

type registerResponse struct {
	Message string           `json:"message"`
	User    *domain.Surveyor `json:"user"`
}

// --- Profile ---

type updateInfoRequest struct {
	FirstName   *string `json:"firstName"   validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName"    validate:"omitempty,min=1,max=100"`
	CompanyName *string `json:"companyName" validate:"omitempty,max=200"`
	Email       *string `json:"email"       validate:"omitempty,email,max=255"`
	Phone       *string `json:"phone"       validate:"omitempty,max=20"`
	Address     *string `json:"address"     validate:"omitempty,min=1,max=255"`
	City        *string `json:"city"        validate:"omitempty,min=1,max=100"`
	State       *string `json:"state"       validate:"omitempty,len=2,alpha"`
	ZipCode     *string `json:"zipCode"     validate:"omitempty,zipcode"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,maxbytes=72"`
}

type servicesRequest struct {
	MainServices []string `json:"mainServices" validate:"max=50,dive,required,max=100"`
	Subservices  []string `json:"subservices"  validate:"max=200,dive,required,max=100"`
}

type areasRequest struct {
	Counties []string `json:"counties" validate:"max=300,dive,required,max=100"`
}

type associationsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// --- Email ---

type sendEmailRequest struct {
	To      string `json:"to"      validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Text    string `json:"text"    validate:"required_without=HTML"`
	HTML    string `json:"html"`
}
