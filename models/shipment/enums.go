package shipment

// ShipmentStatus is the closed set of lifecycle states a shipment moves
// through. The column stores plain strings, so every write goes through
// IsValid first.
type ShipmentStatus string

const (
	StatusBooked         ShipmentStatus = "Booked"
	StatusPickedUp       ShipmentStatus = "Picked Up"
	StatusInTransit      ShipmentStatus = "In-Transit"
	StatusOutForDelivery ShipmentStatus = "Out for Delivery"
	StatusDelivered      ShipmentStatus = "Delivered"
)

func (s ShipmentStatus) String() string {
	return string(s)
}

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusPickedUp, StatusInTransit, StatusOutForDelivery, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsCompleted returns true once the shipment reached its terminal state.
func (s ShipmentStatus) IsCompleted() bool {
	return s == StatusDelivered
}

// ProgressPercentage maps the current status to the display progress value.
// Unknown statuses map to 0.
func (s ShipmentStatus) ProgressPercentage() int {
	switch s {
	case StatusBooked:
		return 10
	case StatusPickedUp:
		return 30
	case StatusInTransit:
		return 60
	case StatusOutForDelivery:
		return 85
	case StatusDelivered:
		return 100
	default:
		return 0
	}
}

// GetAllShipmentStatuses returns every valid shipment status.
func GetAllShipmentStatuses() []ShipmentStatus {
	return []ShipmentStatus{
		StatusBooked,
		StatusPickedUp,
		StatusInTransit,
		StatusOutForDelivery,
		StatusDelivered,
	}
}
