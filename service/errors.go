package service

import "errors"

var (
	ErrValidation   = errors.New("validation")     // 400
	ErrEmptyCart    = errors.New("cart is empty")  // 400
	ErrUnauthorized = errors.New("unauthorized")   // 401
	ErrForbidden    = errors.New("forbidden")      // 403
	ErrNotFound     = errors.New("not found")      // 404
	ErrConflict     = errors.New("conflict")       // 409
	ErrTransition   = errors.New("invalid status") // 422
)
