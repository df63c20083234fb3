package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrNotAuthenticated  = errors.New("invalid account number or password")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Loan errors
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanNotActive       = errors.New("loan is not active")
	ErrInvalidLoanTerm     = errors.New("loan term must be at least one month")
	ErrInvalidInterestRate = errors.New("interest rate must not be negative")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
