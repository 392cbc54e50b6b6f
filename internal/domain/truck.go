package domain

import "strings"

// A truck in the fleet. Name is display data only.
type Truck struct {
	ID   TruckID
	Name string
}

// DisplayName returns the truck name, falling back to a label built from the identifier.
func (t Truck) DisplayName() string {
	if n := strings.TrimSpace(t.Name); n != "" {
		return n
	}
	return TruckLabel(t.ID)
}

func TruckLabel(id TruckID) string {
	if id == "" {
		return "unknown truck"
	}
	return "truck " + string(id)
}
