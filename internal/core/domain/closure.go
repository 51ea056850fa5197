package domain

import "time"

// GLClosure records an accounting closure for a branch office. No posting or
// reversal may carry an entry date on or before ClosingDate for that office.
type GLClosure struct {
	GLClosureID int64     `json:"glClosureID"`
	OfficeID    int64     `json:"officeID"`
	ClosingDate time.Time `json:"closingDate"`
	Comments    string    `json:"comments,omitempty"`
}

// Office is a branch of the organization.
type Office struct {
	OfficeID int64  `json:"officeID"`
	Name     string `json:"name"`
}
