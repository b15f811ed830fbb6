package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeLine is a single billable item on a folio. Immutable once built;
// lines are derived per request from the stay's room rate and extra-service
// records, never persisted on their own.
type ChargeLine struct {
	Description string          `json:"description"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// NewChargeLine builds a line with its total precomputed. Non-positive
// quantities yield a zero-total line.
func NewChargeLine(description string, quantity int32, unitPrice decimal.Decimal) ChargeLine {
	if quantity < 0 {
		quantity = 0
	}
	return ChargeLine{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt32(quantity)),
	}
}

// RoomCharge is the room component of a stay's bill.
type RoomCharge struct {
	RoomLabel   string
	Nights      int32
	NightlyRate decimal.Decimal
}

// ServiceCharge is a non-room billable item (food, transport, laundry...)
// attached to a stay.
type ServiceCharge struct {
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
}

// ChargeLines expands a room charge and its extra services into folio lines.
// The room line always comes first.
func ChargeLines(room RoomCharge, services []ServiceCharge) []ChargeLine {
	lines := make([]ChargeLine, 0, len(services)+1)
	desc := fmt.Sprintf("Room %s (%d night(s))", room.RoomLabel, room.Nights)
	lines = append(lines, NewChargeLine(desc, room.Nights, room.NightlyRate))
	for _, svc := range services {
		lines = append(lines, NewChargeLine(svc.Name, svc.Quantity, svc.UnitPrice))
	}
	return lines
}

// Subtotal sums line totals.
func Subtotal(lines []ChargeLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
