package catalog

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrImageNotFound        = errors.New("image not found")
	ErrCategoryNameTaken    = errors.New("category name already exists")
	ErrDuplicateVariation   = errors.New("duplicate variation name")
	ErrNotOwner             = errors.New("not the product owner")
	ErrInvalidProductStatus = errors.New("invalid product status")
)
