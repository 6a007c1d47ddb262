package dtos

// CompanySignupRequest arrives as multipart form data next to an optional logo.
type CompanySignupRequest struct {
	Name            string `form:"name" json:"name" validate:"required"`
	Email           string `form:"email" json:"email" validate:"required"`
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required"`
	Industry        string `form:"industry" json:"industry" validate:"required"`
	Location        string `form:"location" json:"location" validate:"required"`
}

type UserSignupRequest struct {
	Username        string `form:"username" json:"username" validate:"required"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
	// ConformPassword is the misspelled field the web client sends.
	ConformPassword string `form:"conformPassword" json:"conformPassword"`
}

// Confirmation returns whichever confirmation field the client filled.
func (r UserSignupRequest) Confirmation() string {
	if r.ConfirmPassword != "" {
		return r.ConfirmPassword
	}
	return r.ConformPassword
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// CompanyUpdateRequest leaves blank fields untouched.
type CompanyUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
	Industry string `json:"industry"`
}

// CompanyLookupRequest selects a company by its natural key.
type CompanyLookupRequest struct {
	Email string `form:"email" json:"email" validate:"required"`
}

type ProfileSetupRequest struct {
	Age        string `form:"age" json:"age" validate:"omitempty,numeric"`
	Experience string `form:"experience" json:"experience"`
	LookingFor string `form:"lookingFor" json:"lookingFor"`
	Available  string `form:"available" json:"available"`
	Preference string `form:"preference" json:"preference"`
	Location   string `form:"location" json:"location"`
}

type UserProfileEditRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email" validate:"omitempty,email"`
	Location   string `json:"location"`
	Preference string `json:"preference"`
	LookingFor string `json:"lookingFor"`
}
