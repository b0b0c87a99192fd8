package booking

import (
	"sort"
	"time"

	"clinicbook/models"

	"go.uber.org/zap"
)

const dateKeyLayout = "2006-01-02"

// DateKey renders a slot's UTC calendar date the way the schedule map is
// keyed.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// NormalizeSchedule turns the backend's flat availability list into the
// per-date view the flow works with: slots grouped by UTC date and sorted
// ascending by start time, plus the sorted list of dates that still have at
// least one bookable slot. Slots with inverted windows are dropped with a
// warning instead of poisoning the whole schedule.
func NormalizeSchedule(doctorID string, raw []models.ScheduleSlot, now time.Time, logger *zap.Logger) *models.DoctorSchedule {
	slotsByDate := make(map[string][]models.ScheduleSlot)
	for _, slot := range raw {
		if slot.Start.IsZero() || slot.End.IsZero() || !slot.End.After(slot.Start) {
			logger.Warn("dropping malformed schedule slot",
				zap.String("doctorID", doctorID),
				zap.Time("start", slot.Start),
				zap.Time("end", slot.End))
			continue
		}
		key := DateKey(slot.Start)
		slotsByDate[key] = append(slotsByDate[key], slot)
	}

	bookable := make([]string, 0, len(slotsByDate))
	for key, slots := range slotsByDate {
		sort.Slice(slots, func(i, j int) bool {
			return slots[i].Start.Before(slots[j].Start)
		})
		slotsByDate[key] = slots

		for _, slot := range slots {
			if slot.Bookable(now) {
				bookable = append(bookable, key)
				break
			}
		}
	}
	sort.Strings(bookable)

	return &models.DoctorSchedule{
		DoctorID:      doctorID,
		SlotsByDate:   slotsByDate,
		BookableDates: bookable,
	}
}

// ResolveSlot finds the cached slot with the given date key and exact start
// time, enforcing that it is still selectable. The flow fails fast here,
// before any network call, when the selection no longer matches the cache.
func ResolveSlot(schedule *models.DoctorSchedule, dateKey string, start time.Time, now time.Time) (*models.ScheduleSlot, error) {
	if schedule == nil {
		return nil, NewSlotError("no schedule loaded")
	}
	slots, ok := schedule.SlotsByDate[dateKey]
	if !ok {
		return nil, NewSlotError("no slots on the selected date")
	}
	for i := range slots {
		if slots[i].Start.Equal(start) {
			if !slots[i].IsAvailable {
				return nil, NewSlotError("the selected slot is already taken")
			}
			if !slots[i].End.After(now) {
				return nil, NewSlotError("the selected slot has already passed")
			}
			return &slots[i], nil
		}
	}
	return nil, NewSlotError("selected time slot not found")
}
