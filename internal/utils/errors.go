package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound  = errors.New("PRODUCT_NOT_FOUND")
	ErrClientNotFound   = errors.New("CLIENT_NOT_FOUND")
	ErrOrderNotFound    = errors.New("ORDER_NOT_FOUND")
	ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")
	ErrInvalidStatus    = errors.New("INVALID_STATUS")
	ErrInvalidDate      = errors.New("INVALID_DATE")
	ErrEmptyOrder       = errors.New("EMPTY_ORDER")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
	ErrInvalidLogin     = errors.New("INVALID_CREDENTIALS")
	ErrInvalidPrice     = errors.New("INVALID_PRICE")
	ErrInvalidImage     = errors.New("INVALID_IMAGE")
	ErrStorageDisabled  = errors.New("STORAGE_DISABLED")
)
