package domain

import "errors"

// Rejection errors returned by engine mutations. Every rejected move leaves
// the engine state untouched.
var (
	ErrOutOfTurn          = errors.New("move from a seat that is not current")
	ErrInvalidPlay        = errors.New("card is not a legal play")
	ErrInvalidDraw        = errors.New("draw is not legal in this phase or from this pile")
	ErrInvalidDeclaration = errors.New("hand does not form a winning declaration")
	ErrCardNotFound       = errors.New("card is not in the seat's hand")
)
