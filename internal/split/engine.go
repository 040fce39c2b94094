package split

import "errors"

// ErrNilInput is returned when a nil collection is passed where an empty
// one was intended. That is a caller bug, not a domain condition; all
// other malformed input degrades gracefully.
var ErrNilInput = errors.New("split: items, assignments and participants must be non-nil")

// Compute turns a room snapshot into one Result per participant.
//
// It is a pure function: no I/O, inputs are never mutated, and identical
// inputs always yield identical outputs. Results preserve the input order
// of participants.
//
// Shares are ratios, not absolute percentages: a participant's effective
// share of an item is its share percentage divided by the sum of share
// percentages across all of that item's assignments. A missing percentage
// counts as 100. Items with no assignments contribute nothing. Assignments
// referencing unknown participants are ignored.
//
// The service charge is applied to the subtotal first; tax is then applied
// to subtotal plus service charge.
func Compute(items []Item, assignments []Assignment, participants []Participant, taxRate, serviceChargeRate float64) ([]Result, error) {
	if items == nil || assignments == nil || participants == nil {
		return nil, ErrNilInput
	}

	results := make([]Result, len(participants))
	byParticipant := make(map[string]*Result, len(participants))
	for i, p := range participants {
		results[i] = Result{
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			LineItems:       []LineItem{},
		}
		byParticipant[p.ID] = &results[i]
	}

	byItem := make(map[string][]Assignment)
	for _, a := range assignments {
		byItem[a.ItemID] = append(byItem[a.ItemID], a)
	}

	for _, item := range items {
		itemAssignments := byItem[item.ID]
		if len(itemAssignments) == 0 {
			// Unassigned items are dropped, not split equally.
			continue
		}

		var totalPercentage float64
		for _, a := range itemAssignments {
			totalPercentage += percentageOrDefault(a)
		}
		if totalPercentage == 0 {
			continue
		}

		lineTotal := item.UnitPrice * float64(item.Quantity)
		for _, a := range itemAssignments {
			result, ok := byParticipant[a.ParticipantID]
			if !ok {
				continue
			}

			shareRatio := percentageOrDefault(a) / totalPercentage
			contribution := lineTotal * shareRatio

			result.SubtotalOwed += contribution
			result.LineItems = append(result.LineItems, LineItem{
				ItemID:   item.ID,
				ItemName: item.Name,
				Amount:   contribution,
			})
		}
	}

	for i := range results {
		r := &results[i]
		r.ServiceCharge = r.SubtotalOwed * (serviceChargeRate / 100)
		r.Tax = (r.SubtotalOwed + r.ServiceCharge) * (taxRate / 100)
		r.TotalOwed = r.SubtotalOwed + r.ServiceCharge + r.Tax
	}

	return results, nil
}

// percentageOrDefault treats a missing share percentage as 100,
// the single-assignee default.
func percentageOrDefault(a Assignment) float64 {
	if a.SharePercentage == nil {
		return 100
	}
	return *a.SharePercentage
}
