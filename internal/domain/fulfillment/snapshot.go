package fulfillment

// InfoSnapshot is a point-in-time, read-only view of run statistics.
type InfoSnapshot struct {
	UnfinishedOrderLineCount int     `json:"unfinished_order_line_count"`
	UnfinishedOrderLinesCost float64 `json:"unfinished_order_lines_cost"`
	ShipmentsCost            float64 `json:"shipments_cost"`
	TotalCost                float64 `json:"total_cost"`
	ShipmentCount            int     `json:"shipment_count"`
	FulfilledOrderLineCount  int     `json:"fulfilled_order_line_count"`
}

// Complete reports whether every order line has been fulfilled.
func (s InfoSnapshot) Complete() bool {
	return s.UnfinishedOrderLineCount == 0
}
