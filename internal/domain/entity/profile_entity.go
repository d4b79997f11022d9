package entity

import "time"

// StudentProfile holds the supplementary student fields a user must fill in
// before their first registration.
type StudentProfile struct {
	UserID             string
	CollegeEmail       string
	RegistrationNumber string
	Branch             string
	Department         string
	YearOfStudy        int
	Interests          string
	UpdatedAt          time.Time
}

// MissingFields returns the JSON names of the required fields that are empty.
func (p *StudentProfile) MissingFields() []string {
	if p == nil {
		return []string{"college_email", "registration_number", "branch", "department", "year_of_study"}
	}
	var missing []string
	if p.CollegeEmail == "" {
		missing = append(missing, "college_email")
	}
	if p.RegistrationNumber == "" {
		missing = append(missing, "registration_number")
	}
	if p.Branch == "" {
		missing = append(missing, "branch")
	}
	if p.Department == "" {
		missing = append(missing, "department")
	}
	if p.YearOfStudy == 0 {
		missing = append(missing, "year_of_study")
	}
	return missing
}

// IsComplete reports whether every required field is present.
func (p *StudentProfile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}
