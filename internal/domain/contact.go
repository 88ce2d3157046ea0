package domain

// Contact is an entry of the in-memory contact book.
type Contact struct {
	Name   string
	Number string
	Email  string
}
