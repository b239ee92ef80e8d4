// Package status holds the shared lifecycle status values stored on cohorts,
// enrollments, and users.
package status

const (
	Active    = "active"
	Archived  = "archived"  // cohorts no longer running
	Withdrawn = "withdrawn" // enrollments that left the program
	Disabled  = "disabled"  // users who may no longer sign in
)
