package models

// Role selects which profile endpoints a session talks to.
type Role string

const (
	RoleStudent Role = "student"
	RoleDoctor  Role = "doctor"
)

// Address is stored by the backend as a two-line object.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Profile is the union of the student and doctor profile records. Doctor-only
// fields stay empty for students.
type Profile struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Address    Address `json:"address"`
	Gender     string  `json:"gender,omitempty"`
	DOB        string  `json:"dob,omitempty"`
	Image      string  `json:"image,omitempty"`
	Speciality string  `json:"speciality,omitempty"`
	Degree     string  `json:"degree,omitempty"`
	Experience string  `json:"experience,omitempty"`
	About      string  `json:"about,omitempty"`
	Fees       int     `json:"fees,omitempty"`
	Available  bool    `json:"available,omitempty"`
}
