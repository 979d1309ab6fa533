package dto

// GenerateReportRequest captures the POST /reports/generate payload.
type GenerateReportRequest struct {
	TemplateID string      `json:"templateId" validate:"required"`
	Format     string      `json:"format" validate:"required"`
	Filter     FilterQuery `json:"filter"`
	EntityType string      `json:"entityType"`
	EntityIDs  []string    `json:"entityIds" validate:"omitempty,max=20,dive,required"`
	Locale     string      `json:"locale" validate:"omitempty,oneof=en km"`
}

// CustomReportRequest captures the POST /reports/custom payload.
type CustomReportRequest struct {
	Sections   []string    `json:"sections" validate:"required,min=1,dive,required"`
	Format     string      `json:"format" validate:"required"`
	Filter     FilterQuery `json:"filter"`
	EntityType string      `json:"entityType"`
	EntityIDs  []string    `json:"entityIds" validate:"omitempty,max=20,dive,required"`
	Locale     string      `json:"locale" validate:"omitempty,oneof=en km"`
}
