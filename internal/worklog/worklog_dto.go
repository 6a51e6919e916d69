package worklog

type CreateWorkLogRequest struct {
	WorkDate     string  `json:"work_date" binding:"required"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	BreakMinutes *int    `json:"break_minutes" binding:"omitempty,min=0"`
	Note         *string `json:"note" binding:"omitempty,max=1000"`
}

type UpdateWorkLogRequest struct {
	WorkDate     string  `json:"work_date" binding:"required"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	BreakMinutes *int    `json:"break_minutes" binding:"omitempty,min=0"`
	Note         *string `json:"note" binding:"omitempty,max=1000"`
}

type RejectWorkLogRequest struct {
	RejectReason string `json:"reject_reason" binding:"max=500"`
}

type WorkLogResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	WorkDate     string  `json:"work_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	Note         *string `json:"note"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	RejectReason *string `json:"reject_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type ReviewWorkLogResponse struct {
	WorkLogResponse
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// ListFilter narrows repository queries. Zero values mean "any".
type ListFilter struct {
	OwnerID string
	Status  Status
	From    string
	To      string
}

func (r CreateWorkLogRequest) details() Details {
	return Details{
		WorkDate:     r.WorkDate,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		BreakMinutes: intOrZero(r.BreakMinutes),
		Note:         r.Note,
	}
}

func (r UpdateWorkLogRequest) details() Details {
	return Details{
		WorkDate:     r.WorkDate,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		BreakMinutes: intOrZero(r.BreakMinutes),
		Note:         r.Note,
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
