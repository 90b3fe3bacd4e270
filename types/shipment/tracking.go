package shipment

// TrackingResponse is the public tracking payload. It intentionally carries
// only display-ready values so the frontend never derives anything itself.
type TrackingResponse struct {
	Success bool         `json:"success"`
	Data    TrackingView `json:"data"`
}

type TrackingView struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Progress    int             `json:"progress"`
	ETA         string          `json:"eta"`
	Origin      TrackingPoint   `json:"origin"`
	Destination TrackingPoint   `json:"destination"`
	Details     TrackingDetails `json:"details"`
	History     []HistoryEntry  `json:"history"`
}

type TrackingPoint struct {
	City    string `json:"city"`
	Code    string `json:"code"`
	Address string `json:"address,omitempty"`
}

type TrackingDetails struct {
	Weight      string `json:"weight"`
	Service     string `json:"service"`
	Pieces      int    `json:"pieces"`
	Description string `json:"description"`
}

// HistoryEntry is one formatted timeline row; Active marks the most recent
// entry.
type HistoryEntry struct {
	Status      string `json:"status"`
	Loc         string `json:"loc"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Date        string `json:"date"`
	Active      bool   `json:"active"`
}
