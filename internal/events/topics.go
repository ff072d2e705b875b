package events

// Topic constants for domain events emitted by the core.
const (
	TopicTicketReserved = "ticket.reserved"
	TopicTicketReleased = "ticket.released"
	TopicSaleConfirmed  = "sale.confirmed"
	TopicStockAdded     = "stock.added"
	TopicStockReset     = "stock.reset"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicTicketReserved,
		TopicTicketReleased,
		TopicSaleConfirmed,
		TopicStockAdded,
		TopicStockReset,
	}
}
