package profile

type UpdateProfileRequest struct {
	Name       *string  `json:"name" binding:"omitempty,min=1,max=255"`
	HourlyRate *float64 `json:"hourly_rate"`
	TaxRate    *float64 `json:"tax_rate"`
	Role       *string  `json:"role"`
	IsActive   *bool    `json:"is_active"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
}

type ProfileResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	TaxRate    float64 `json:"tax_rate"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

type InviteResponse struct {
	Profile         ProfileResponse `json:"profile"`
	InviteExpiresAt string          `json:"invite_expires_at"`
}

type ListFilter struct {
	Role       string
	Email      string
	ActiveOnly bool
}
