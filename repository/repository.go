// Package repository holds the gorm-backed stores for every table the
// storefront owns.
package repository

import "errors"

// ErrStaleStatus is returned by a conditional status update when the order
// was no longer in the expected status.
var ErrStaleStatus = errors.New("order status changed")

// ErrMenuItemInUse is returned when deleting a menu item that order lines
// still reference.
var ErrMenuItemInUse = errors.New("menu item is referenced by orders")
