package models

import "time"

type Cat struct {
	Id                int64     `json:"id"`
	Name              string    `json:"name"`
	YearsOfExperience int       `json:"years_of_experience"`
	Breed             string    `json:"breed"`
	Salary            float64   `json:"salary"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CatCreate is the body of a create request. Identity and timestamps are
// assigned by the agency.
type CatCreate struct {
	Name              string  `json:"name" binding:"required,min=1,max=50"`
	YearsOfExperience int     `json:"years_of_experience" binding:"gte=0"`
	Breed             string  `json:"breed" binding:"required,max=120"`
	Salary            float64 `json:"salary" binding:"required,gt=0"`
}

// CatUpdate carries the only field that may change after creation.
type CatUpdate struct {
	Salary float64 `json:"salary" binding:"required,gt=0"`
}
