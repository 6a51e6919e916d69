package payroll

type LineResponse struct {
	WorkDate     string `json:"work_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	NetMinutes   int    `json:"net_minutes"`
	Included     bool   `json:"included"`
	Excluded     string `json:"excluded_reason,omitempty"`
}

type SummaryResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`

	Days int    `json:"days"`
	From string `json:"from"`
	To   string `json:"to"`

	HourlyRate float64 `json:"hourly_rate"`
	TaxRate    float64 `json:"tax_rate"`

	TotalWorkedMinutes int     `json:"total_worked_minutes"`
	TotalHours         float64 `json:"total_hours"`
	GrossPay           float64 `json:"gross_pay"`
	NetPay             float64 `json:"net_pay"`

	WorkedDisplay string `json:"worked_display"`
	GrossDisplay  string `json:"gross_display"`
	NetDisplay    string `json:"net_display"`

	Lines []LineResponse `json:"lines"`
}

type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
