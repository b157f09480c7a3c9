package models

type Doctor struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	Degree     string `json:"degree"`
	Experience string `json:"experience"`
	About      string `json:"about"`
	Fees       int    `json:"fees"`
	Available  bool   `json:"available"`
	Image      string `json:"image,omitempty"`
}

// AvailableDoctors keeps the doctors currently taking appointments.
func AvailableDoctors(doctors []Doctor) []Doctor {
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.Available {
			out = append(out, d)
		}
	}
	return out
}
