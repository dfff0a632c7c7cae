package orders

import (
	"time"

	"github.com/google/uuid"
)

// BuildOrder constructs an Order from a create payload and a resolved
// customer snapshot. Identity and timestamps are assigned here, exactly once;
// TotalAmount falls back to the sum of the line totals.
func BuildOrder(dto NewOrderDTO, customer Customer, createdBy string, now time.Time) Order {
	id := uuid.NewString()

	lines := buildLines(id, dto.OrderLines, now)

	status := StatusPending
	if dto.Status != "" {
		status = OrderStatus(dto.Status)
	}

	total := sumLineTotals(lines)
	if dto.TotalAmount != nil {
		total = *dto.TotalAmount
	}

	return Order{
		ID:              id,
		Customer:        customer,
		CreatedDateTime: now,
		UpdatedDateTime: now,
		CreatedBy:       createdBy,
		Status:          status,
		TotalAmount:     total,
		OrderLines:      lines,
		BranchID:        dto.BranchID,
		Comments:        dto.Comments,
	}
}

// BuildUpdatedOrder constructs the next state of an existing order. The
// identity and original creation time are preserved from the current state,
// as is each surviving line's creation time; an incoming createdDateTime on
// a line is never trusted.
func BuildUpdatedOrder(current Order, dto UpdatedOrderDTO, customer Customer, now time.Time) Order {
	createdByLine := make(map[string]time.Time, len(current.OrderLines))
	for _, line := range current.OrderLines {
		createdByLine[line.ID] = line.CreatedDateTime
	}

	lines := buildLines(current.ID, dto.OrderLines, now)
	for i := range lines {
		if created, ok := createdByLine[lines[i].ID]; ok {
			lines[i].CreatedDateTime = created
		}
	}

	return Order{
		ID:              current.ID,
		Customer:        customer,
		CreatedDateTime: current.CreatedDateTime,
		UpdatedDateTime: now,
		CreatedBy:       current.CreatedBy,
		Status:          OrderStatus(dto.Status),
		TotalAmount:     sumLineTotals(lines),
		OrderLines:      lines,
		BranchID:        dto.BranchID,
		Comments:        dto.Comments,
	}
}

// DroppedLines returns the lines present in current but absent from next,
// compared by line id. These must be deleted in the same transaction that
// writes the update.
func DroppedLines(current, next Order) []OrderLine {
	surviving := make(map[string]struct{}, len(next.OrderLines))
	for _, line := range next.OrderLines {
		surviving[line.ID] = struct{}{}
	}

	var dropped []OrderLine
	for _, line := range current.OrderLines {
		if _, ok := surviving[line.ID]; !ok {
			dropped = append(dropped, line)
		}
	}
	return dropped
}

func buildLines(orderID string, dtos []LineDTO, now time.Time) []OrderLine {
	lines := make([]OrderLine, 0, len(dtos))
	for _, dto := range dtos {
		id := dto.ID
		if id == "" {
			id = uuid.NewString()
		}
		lines = append(lines, OrderLine{
			ID:              id,
			OrderID:         orderID,
			ProductID:       dto.ProductID,
			ProductName:     dto.ProductName,
			Quantity:        dto.Quantity,
			Price:           dto.Price,
			Total:           dto.Total,
			CreatedDateTime: parseTimeOr(dto.CreatedDateTime, now),
			UpdatedDateTime: parseTimeOr(dto.UpdatedDateTime, now),
		})
	}
	return lines
}

func sumLineTotals(lines []OrderLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total
	}
	return total
}

func parseTimeOr(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t
}
