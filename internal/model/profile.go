package model

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// PatientProfile is the assembled detail view for one patient: the core
// row, the optional medical-info row, and derived metrics. Secondary
// sources that failed to load leave their fields nil/zero rather than
// blocking the profile.
type PatientProfile struct {
	Patient     Patient      `json:"patient"`
	Medical     *MedicalInfo `json:"medical,omitempty"`
	Age         *int         `json:"age,omitempty"`
	BMI         *float64     `json:"bmi,omitempty"`
	BMICategory *BMICategory `json:"bmi_category,omitempty"`

	MissedSessions int               `json:"missed_sessions"`
	Adherence      *AdherenceRecord  `json:"adherence,omitempty"`
	Trend          *PerformanceTrend `json:"trend,omitempty"`

	AvatarInitials string `json:"avatar_initials"`
	AvatarColor    string `json:"avatar_color"`
}

// PatientListRow is one row of the dashboard patient table.
type PatientListRow struct {
	Patient        Patient           `json:"patient"`
	DisplayName    string            `json:"display_name"`
	Age            *int              `json:"age,omitempty"`
	Adherence      *AdherenceRecord  `json:"adherence,omitempty"`
	Trend          *PerformanceTrend `json:"trend,omitempty"`
	AvatarInitials string            `json:"avatar_initials"`
	AvatarColor    string            `json:"avatar_color"`
}
