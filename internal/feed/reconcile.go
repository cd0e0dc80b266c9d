package feed

import "github.com/hazelbrew/cafe-orderflow/internal/orders"

// Reconcile reduces the full feed history to the latest known state per
// order id. Rows missing id, customer name or drink name are dropped.
//
// Within a group, revision sequence numbers win when the source provides
// them (max rev is latest). Otherwise exactly one row must carry the
// current marker; zero or multiple markers is a DataQualityError.
//
// Output order follows first appearance of each id in the feed.
func Reconcile(rows []Row) ([]orders.Order, error) {
	groups := map[string][]Row{}
	var ids []string
	for _, r := range rows {
		o := r.Order
		if o.ID == "" || o.CustomerName == "" || o.DrinkName == "" {
			continue
		}
		if _, seen := groups[o.ID]; !seen {
			ids = append(ids, o.ID)
		}
		groups[o.ID] = append(groups[o.ID], r)
	}

	result := make([]orders.Order, 0, len(ids))
	for _, id := range ids {
		latest, err := latestRevision(id, groups[id])
		if err != nil {
			return nil, err
		}
		result = append(result, latest)
	}
	return result, nil
}

func latestRevision(id string, group []Row) (orders.Order, error) {
	// prefer sequence numbers when any row in the group carries one
	var best *Row
	for i := range group {
		r := &group[i]
		if r.Rev == 0 {
			continue
		}
		if best == nil || r.Rev >= best.Rev {
			best = r
		}
	}
	if best != nil {
		return best.Order, nil
	}

	marked := 0
	for i := range group {
		if group[i].Order.Current == orders.RevisionCurrent {
			best = &group[i]
			marked++
		}
	}
	if marked != 1 {
		return orders.Order{}, &DataQualityError{OrderID: id, Marked: marked}
	}
	return best.Order, nil
}
