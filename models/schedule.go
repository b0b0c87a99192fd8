package models

import "time"

// ScheduleSlot is one availability window in a doctor's schedule.
type ScheduleSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsAvailable bool      `json:"is_available"`
}

// Bookable reports whether the slot can still be selected: it must be
// marked available and must not have already ended.
func (s ScheduleSlot) Bookable(now time.Time) bool {
	return s.IsAvailable && s.End.After(now)
}

// ScheduleResponse is the raw schedule payload from the clinic backend.
type ScheduleResponse struct {
	DoctorID       string         `json:"doctor_id"`
	DoctorName     string         `json:"doctor_name"`
	Timezone       string         `json:"timezone"`
	Specialization string         `json:"specialization"`
	Availability   []ScheduleSlot `json:"availability"`
}

// DoctorSchedule is the normalized, client-side view of a schedule:
// slots grouped by UTC date key (yyyy-MM-dd) in ascending start order,
// plus the sorted set of dates that still hold at least one bookable slot.
type DoctorSchedule struct {
	DoctorID      string                    `json:"doctor_id"`
	SlotsByDate   map[string][]ScheduleSlot `json:"slots_by_date"`
	BookableDates []string                  `json:"bookable_dates"`
}
