package association

import "errors"

var (
	ErrAssociationNotFound = errors.New("association not found")
	ErrFarmerNotFound      = errors.New("farmer not found")
	ErrNameTaken           = errors.New("association name already exists")
)
