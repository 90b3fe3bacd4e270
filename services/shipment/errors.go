package shipment

import "errors"

var (
	ErrUserNotFound        = errors.New("sender user not found")
	ErrShipmentNotFound    = errors.New("shipment not found")
	ErrInvalidStatus       = errors.New("unknown shipment status")
	ErrNotAnAgent          = errors.New("user is not an agent")
	ErrTrackingIDExhausted = errors.New("could not generate a unique tracking id")
)
