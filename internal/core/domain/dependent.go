package domain

import (
	"fmt"
	"strings"
	"time"
)

// Dependent is a child enrolled in workshops on behalf of a Client.
type Dependent struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname,omitempty"`
	BirthDate time.Time `json:"birth_date"`
}

func (d Dependent) FullName() string {
	return strings.TrimSpace(d.Name + " " + d.Surname)
}

// Age is expressed in whole years plus the remaining months.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// AgeAt counts completed months between the birth date and at. A month is
// complete once the day of month has been reached. Future birth dates give
// a zero age.
func (d Dependent) AgeAt(at time.Time) Age {
	if d.BirthDate.IsZero() {
		return Age{}
	}
	months := (at.Year()-d.BirthDate.Year())*12 + int(at.Month()) - int(d.BirthDate.Month())
	if at.Day() < d.BirthDate.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return Age{Years: months / 12, Months: months % 12}
}

// String shows years once the child is at least one, months before that.
func (a Age) String() string {
	if a.Years > 0 {
		if a.Years == 1 {
			return "1 anno"
		}
		return fmt.Sprintf("%d anni", a.Years)
	}
	if a.Months == 1 {
		return "1 mese"
	}
	return fmt.Sprintf("%d mesi", a.Months)
}
