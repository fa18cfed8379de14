package appointment

import (
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

// WithinWorkingHours valida se [start, end) cabe no expediente do dia,
// sem invadir a pausa de almoço. Expediente ausente ou inativo reprova.
func WithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	loc := start.Location()
	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	workStart, ok1 := parseHM(wh.StartTime)
	workEnd, ok2 := parseHM(wh.EndTime)
	if !ok1 || !ok2 {
		return false
	}

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart, ok1 := parseHM(wh.LunchStart)
		lunchEnd, ok2 := parseHM(wh.LunchEnd)
		if ok1 && ok2 && start.Before(lunchEnd) && end.After(lunchStart) {
			return false
		}
	}

	return true
}
