// Package repository contains the repository interfaces and related errors.
package repository

import "errors"

// Repository errors define common error conditions across all repositories.
// These errors are used to communicate specific failure conditions
// from the data access layer to the application layer.

var (
	// ErrDatasetNotFound is returned when the dataset source does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrProductNotFound is returned when a record references an unknown product.
	ErrProductNotFound = errors.New("product not found")

	// ErrCustomerNotFound is returned when a record references an unknown customer.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrPlanNotFound is returned when a stored plan report cannot be found by ID.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrInvalidInput is returned when repository receives invalid input.
	ErrInvalidInput = errors.New("invalid input provided")
)

// IsNotFoundError checks if the error is a not found error.
// This is useful for handling not-found cases uniformly.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDatasetNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound)
}
