package tui

import (
	"reco/internal/book"
	"reco/internal/discovery"
)

// searchDone carries the result of one issued search. The generation inside
// the result decides whether it is still wanted.
type searchDone struct {
	Result discovery.Result
}

type statusSaved struct {
	BookID string
	Title  string
	Status book.Status
	Err    error
}

type authDone struct {
	SignUp bool
	Err    error
}

type statusesLoaded struct {
	Err error
}

type signedOut struct {
	Err error
}
