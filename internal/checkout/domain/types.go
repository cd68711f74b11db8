package domain

// Amounts are minor units, matching the catalog.
type QuoteLine struct {
	ProductID    string
	SelectedSize string
	Title        string
	Quantity     int64
	UnitPrice    int64
	ListPrice    int64
	LineTotal    int64
}

type Quote struct {
	UserID   string
	Lines    []QuoteLine
	Subtotal int64
	Savings  int64
	Total    int64
}
