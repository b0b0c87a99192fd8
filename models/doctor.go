package models

// Doctor is a bookable practitioner as returned by the clinic backend.
type Doctor struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Specialty   string `json:"specialty,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// PatientProfile is the authenticated patient's contact record.
type PatientProfile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}
