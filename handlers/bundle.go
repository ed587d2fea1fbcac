package handlers

import (
	userRepoPkg "lexbook/database/repository/user"
)

// HandlerBundle carries the assembled handlers and the repositories the
// middleware needs, so route registration takes a single argument.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Booking  *BookingHandler
	Provider *ProviderHandler
	Signup   *SignupHandler
	Auth     *AuthHandler
}
