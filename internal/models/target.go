package models

type Target struct {
	Id        int64  `json:"id"`
	Name      string `json:"name" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
}

type TargetUpdate struct {
	Notes     *string `json:"notes,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
