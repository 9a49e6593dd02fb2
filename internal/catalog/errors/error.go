// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidProduct = errors.New("product name and a positive price are required")
var ErrNoFieldsToUpdate = errors.New("no fields to update")
var ErrInsufficientStock = errors.New("insufficient stock")
