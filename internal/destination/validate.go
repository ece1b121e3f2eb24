package destination

import (
	"strings"
	"unicode/utf8"
)

// FieldError describes a single validation rule violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Draft is the client-supplied shape of a destination before validation.
// Pointer fields distinguish "absent" from "present but zero": Visited falls
// back to false when absent, ImageURLs is left to the caller to default
// (create uses an empty list, update keeps the stored value).
type Draft struct {
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Notes     string    `json:"notes"`
	Visited   *bool     `json:"visited"`
	Category  string    `json:"category"`
	Region    string    `json:"region"`
	ImageURLs *[]string `json:"image_urls"`
}

// Validate trims all string fields in place and returns every rule violation.
// A nil return means the draft is valid. Violations are aggregated rather
// than returned one at a time so a client can fix a whole form in one pass.
func (d *Draft) Validate() []FieldError {
	d.Name = strings.TrimSpace(d.Name)
	d.Country = strings.TrimSpace(d.Country)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Category = strings.TrimSpace(d.Category)
	d.Region = strings.TrimSpace(d.Region)

	// Bounds are in characters, not bytes, so multibyte input gets the
	// full advertised length.
	var errs []FieldError
	if d.Name == "" || utf8.RuneCountInString(d.Name) > 100 {
		errs = append(errs, FieldError{Field: "name", Message: "Name must be between 1 and 100 characters"})
	}
	if d.Country == "" || utf8.RuneCountInString(d.Country) > 100 {
		errs = append(errs, FieldError{Field: "country", Message: "Country must be between 1 and 100 characters"})
	}
	if utf8.RuneCountInString(d.Notes) > 1000 {
		errs = append(errs, FieldError{Field: "notes", Message: "Notes must be less than 1000 characters"})
	}
	if utf8.RuneCountInString(d.Category) > 50 {
		errs = append(errs, FieldError{Field: "category", Message: "Category must be less than 50 characters"})
	}
	if utf8.RuneCountInString(d.Region) > 50 {
		errs = append(errs, FieldError{Field: "region", Message: "Region must be less than 50 characters"})
	}
	return errs
}

// IsVisited returns the visited flag, defaulting to false when absent.
func (d *Draft) IsVisited() bool {
	return d.Visited != nil && *d.Visited
}
