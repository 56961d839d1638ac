// Package schema defines the data structures shared by the phonebook daemon, CLI and SDK.
package schema

import "time"

// Person is a stored phonebook entry.
// It is the storage-side shape; the JSON returned to clients is PersonView.
type Person struct {
	// ID is assigned by the record store on insert and never changes.
	ID string
	// LegacyID is the numeric id older clients used. It is kept for
	// compatibility and is not part of the public view.
	LegacyID  int
	Name      string
	Number    string
	CreatedAt time.Time
}

// Candidate is the client-supplied part of a Person, used for create and update.
type Candidate struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PersonView is the wire representation of a Person.
type PersonView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// InfoReport summarises the phonebook at a point in time.
type InfoReport struct {
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}
