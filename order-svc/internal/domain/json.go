package domain

import "encoding/json"

// Money is rendered with exactly two decimals, matching NUMERIC(_,2) columns.

func (m MenuItem) MarshalJSON() ([]byte, error) {
	type plain MenuItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(m), m.Price.StringFixed(2)})
}

func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		TotalCost string `json:"total_cost"`
	}{plain(o), o.TotalCost.StringFixed(2)})
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		Price     string `json:"price"`
		LineTotal string `json:"line_total"`
	}{plain(i), i.Price.StringFixed(2), i.LineTotal().StringFixed(2)})
}

func (s DailyStats) MarshalJSON() ([]byte, error) {
	type plain DailyStats
	return json.Marshal(struct {
		plain
		Revenue string `json:"revenue"`
	}{plain(s), s.Revenue.StringFixed(2)})
}
