package models

import "time"

// Establishment é o tenant: salão, clínica ou profissional autônomo.
type Establishment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	MinAdvanceMinutes int `gorm:"default:120" json:"min_advance_minutes"`

	// Grade diária (0 = usa o default da aplicação)
	GridOpenHour    int `json:"grid_open_hour"`
	GridCloseHour   int `json:"grid_close_hour"`
	GridStepMinutes int `json:"grid_step_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
