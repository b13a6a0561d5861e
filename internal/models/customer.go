package models

// Customer owns orders, transactions and deposits.
type Customer struct {
	BaseModel
	Name    string `json:"name"`
	Phone   string `gorm:"index" json:"phone"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

// Representative delivers orders and holds collected cash in custody until
// it is handed back to the office. Assigned-order counts and custody totals
// are computed from the ledger on read, never stored on this row.
type Representative struct {
	BaseModel
	Name  string `json:"name"`
	Phone string `gorm:"index" json:"phone"`
}
