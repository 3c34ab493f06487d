package models

// Gender defines the possible gender values for a student. The field is
// optional on a record, so an empty string means "not set".
type Gender string

const (
	Female Gender = "Female"
	Male   Gender = "Male"
	Other  Gender = "Other"
)

// Genders lists the accepted values in display order, for form selects.
var Genders = []Gender{Female, Male, Other}
