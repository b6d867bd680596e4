package model

// CounterCases is the counter that numbers cases (#CS_NN).
const CounterCases = "cases"

// CounterModel is a named monotonic sequence, bumped inside the transaction that consumes it.
type CounterModel struct {
	CounterName  string `json:"counter_name" gorm:"column:counter_name;type:varchar(64);primaryKey"`
	CounterValue int64  `json:"counter_value" gorm:"column:counter_value;not null;default:0"`
}

func (CounterModel) TableName() string {
	return "counters"
}
