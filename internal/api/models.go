package api

// Assessment is one completed self-assessment (PHQ-9, GAD-7, ...).
type Assessment struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Score     int            `json:"score"`
	Severity  string         `json:"severity,omitempty"`
	Diagnosis string         `json:"diagnosis,omitempty"`
	Responses map[string]any `json:"responses,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

// CreateAssessmentRequest records a finished assessment.
type CreateAssessmentRequest struct {
	Type      string         `json:"type"`
	Score     int            `json:"score"`
	Responses map[string]any `json:"responses"`
	Severity  string         `json:"severity,omitempty"`
	Diagnosis string         `json:"diagnosis,omitempty"`
}

// VitalReading is a single vitals sample.
type VitalReading struct {
	ID                     string  `json:"id"`
	HeartRate              int     `json:"heartRate"`
	BloodPressureSystolic  int     `json:"bloodPressureSystolic"`
	BloodPressureDiastolic int     `json:"bloodPressureDiastolic"`
	OxygenSaturation       float64 `json:"oxygenSaturation"`
	Temperature            float64 `json:"temperature"`
	IsEmergency            bool    `json:"isEmergency"`
	CreatedAt              string  `json:"createdAt"`
}

// CreateVitalReadingRequest submits a new vitals sample.
type CreateVitalReadingRequest struct {
	HeartRate              int     `json:"heartRate"`
	BloodPressureSystolic  int     `json:"bloodPressureSystolic"`
	BloodPressureDiastolic int     `json:"bloodPressureDiastolic"`
	OxygenSaturation       float64 `json:"oxygenSaturation"`
	Temperature            float64 `json:"temperature"`
}

// Contact is an emergency contact.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	IsEmergency bool   `json:"isEmergency"`
}

// ContactUpdate is a partial contact edit; nil fields are left unchanged.
type ContactUpdate struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsEmergency *bool   `json:"isEmergency,omitempty"`
}

// PageResponse is the backend's page envelope.
type PageResponse[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// Created is the minimal creation acknowledgement some endpoints return.
type Created struct {
	ID string `json:"id"`
}
