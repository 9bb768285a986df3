package enums

// OutboxAggregateType names the entity an outbox event is about.
type OutboxAggregateType string

const (
	AggregateOrder          OutboxAggregateType = "order"
	AggregateVendingMachine OutboxAggregateType = "vending_machine"
)

// OutboxEventType names the domain event carried by an outbox row.
type OutboxEventType string

const (
	EventOrderCreated          OutboxEventType = "order_created"
	EventOrderStatusChanged    OutboxEventType = "order_status_changed"
	EventVendingMachineCreated OutboxEventType = "vending_machine_created"
)

// eventAggregates pins every event type to the aggregate it describes.
var eventAggregates = map[OutboxEventType]OutboxAggregateType{
	EventOrderCreated:          AggregateOrder,
	EventOrderStatusChanged:    AggregateOrder,
	EventVendingMachineCreated: AggregateVendingMachine,
}

// Aggregate returns the aggregate type e belongs to, or false for unknown events.
func (e OutboxEventType) Aggregate() (OutboxAggregateType, bool) {
	agg, ok := eventAggregates[e]
	return agg, ok
}

func (e OutboxEventType) IsValid() bool {
	_, ok := eventAggregates[e]
	return ok
}

func (a OutboxAggregateType) IsValid() bool {
	for _, agg := range eventAggregates {
		if agg == a {
			return true
		}
	}
	return false
}
