package gateway

import (
	"context"
	"fmt"
	"net/http"

	"clinicbook/models"
)

// ListDoctors fetches all users with the doctor role.
func (g *HTTPGateway) ListDoctors(ctx context.Context, token string) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := g.doJSON(ctx, token, http.MethodGet, "/user/users/?role=doctor", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// CurrentProfile fetches the authenticated patient's profile.
func (g *HTTPGateway) CurrentProfile(ctx context.Context, token string) (*models.PatientProfile, error) {
	var payload struct {
		PatientProfile *models.PatientProfile `json:"patient_profile"`
	}
	if err := g.doJSON(ctx, token, http.MethodGet, "/user/users/current-profile/", nil, &payload); err != nil {
		return nil, err
	}
	if payload.PatientProfile == nil {
		return nil, fmt.Errorf("no patient profile on record")
	}
	return payload.PatientProfile, nil
}

// FetchDoctorSchedule fetches the raw availability list for one doctor.
func (g *HTTPGateway) FetchDoctorSchedule(ctx context.Context, token, doctorID string) (*models.ScheduleResponse, error) {
	var schedule models.ScheduleResponse
	path := "/appointment/doctor-schedule/" + pathEscape(doctorID)
	if err := g.doJSON(ctx, token, http.MethodGet, path, nil, &schedule); err != nil {
		return nil, err
	}
	if schedule.Availability == nil {
		return nil, fmt.Errorf("invalid schedule data for doctor %s", doctorID)
	}
	return &schedule, nil
}
