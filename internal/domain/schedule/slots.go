package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay é um horário do dia em minutos desde 00:00.
type TimeOfDay int

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// On posiciona o horário na data informada, no fuso da própria data.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// ParseTimeOfDay aceita "HH:MM" entre 00:00 e 24:00.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// OfInstant devolve o horário do dia de um instante, no fuso do instante.
func OfInstant(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

type GridConfig struct {
	OpenHour    int `json:"open_hour"`
	CloseHour   int `json:"close_hour"`
	StepMinutes int `json:"step_minutes"`
}

var DefaultGridConfig = GridConfig{OpenHour: 8, CloseHour: 20, StepMinutes: 30}

func (c GridConfig) Valid() bool {
	return c.StepMinutes > 0 &&
		c.OpenHour >= 0 && c.CloseHour <= 24 &&
		c.OpenHour <= c.CloseHour
}

// WithDefaults preenche campos zerados com os valores de def.
func (c GridConfig) WithDefaults(def GridConfig) GridConfig {
	if c.OpenHour == 0 && c.CloseHour == 0 {
		c.OpenHour, c.CloseHour = def.OpenHour, def.CloseHour
	}
	if c.StepMinutes == 0 {
		c.StepMinutes = def.StepMinutes
	}
	return c
}

// GenerateSlots devolve os horários da grade, de OpenHour:00 até CloseHour:00
// inclusive quando cai num passo. Configuração inválida gera grade vazia.
func GenerateSlots(cfg GridConfig) []TimeOfDay {
	if !cfg.Valid() {
		return []TimeOfDay{}
	}

	last := TimeOfDay(cfg.CloseHour * 60)
	slots := make([]TimeOfDay, 0, int(last)/cfg.StepMinutes+1)
	for t := TimeOfDay(cfg.OpenHour * 60); t <= last; t += TimeOfDay(cfg.StepMinutes) {
		slots = append(slots, t)
	}
	return slots
}
