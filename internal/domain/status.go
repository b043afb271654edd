package domain

type OrderStatus string

const (
	StatusPending  OrderStatus = "Pending"
	StatusAccepted OrderStatus = "Accepted"
	StatusRejected OrderStatus = "Rejected"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:  {StatusAccepted: true, StatusRejected: true},
	StatusAccepted: {},
	StatusRejected: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transition is defined for s.
func (s OrderStatus) Terminal() bool {
	next, ok := validNext[s]
	return ok && len(next) == 0
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}
