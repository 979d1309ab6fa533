package dto

// UpdateSettingRequest is the PUT /settings/:key payload.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}
