package receipt

// ExtractedItem is one line item read off a receipt image. These are not
// persisted; the client adds the ones it wants through the item API.
type ExtractedItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// AnalyzeResponse is the result of a receipt analysis. Rates are only set
// when the receipt itself shows a tax or service charge line.
type AnalyzeResponse struct {
	Items             []ExtractedItem `json:"items"`
	TaxRate           *float64        `json:"tax_rate,omitempty"`
	ServiceChargeRate *float64        `json:"service_charge_rate,omitempty"`
}
