package orders

const (
	TopicOrderPlaced = "campus.order.placed"
	TopicOrderStatus = "campus.order.status"
)

// Topics lists every topic the order engine publishes to.
func Topics() []string { return []string{TopicOrderPlaced, TopicOrderStatus} }

// Partition key = order id, so every event of one order stays in sequence.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
