package domain

import (
	"strings"
	"time"
)

// User es la vista minima de la cuenta que necesita el nucleo: datos demograficos
// para la evidencia y para el checklist de completitud. La cuenta la administra otra capa.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Bio         string     `json:"bio,omitempty"`
	Location    string     `json:"location,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Age devuelve la edad en anos cumplidos a la fecha now, o nil si no hay fecha de nacimiento.
func (u User) Age(now time.Time) *int {
	if u.DateOfBirth == nil || u.DateOfBirth.IsZero() {
		return nil
	}
	dob := u.DateOfBirth.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}

// FullName concatena nombre y apellido.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
