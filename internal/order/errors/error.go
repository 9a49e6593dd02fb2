// Package errors provides custom error types for order operations.
package errors

import "errors"

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderNotCancellable = errors.New("order cannot be cancelled")
var ErrEmptyOrder = errors.New("order must contain at least one item")
var ErrInvalidItem = errors.New("each item requires productId, productName, quantity and price")

var ErrCreateOrder = errors.New("failed to create order")
var ErrCreateOrderItem = errors.New("failed to create order item")
var ErrFailedToFindOrder = errors.New("failed to find order")
var ErrFailedToFindUserOrders = errors.New("failed to find user orders")
var ErrFailedToFindOrderItems = errors.New("failed to find order items")
var ErrUpdateOrderStatus = errors.New("failed to update order status")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
