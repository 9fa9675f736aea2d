package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

// QueueDeclarer is the slice of *amqp.Channel the topology needs.
type QueueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

func RetryName(queue string) string { return queue + ".retry" }
func DLQName(queue string) string   { return queue + ".dlq" }

// DeclareTopology declares the main queue plus its retry and DLQ side
// queues. Publisher and worker must both declare through here: the broker
// rejects a redeclaration whose arguments differ (PRECONDITION_FAILED),
// so the two processes have to agree on every table.
func DeclareTopology(ch QueueDeclarer, queue string) error {
	// DLQ
	if _, err := ch.QueueDeclare(
		DLQName(queue),
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		return err
	}

	// Retry queue: message TTL -> dead-letter back to main queue
	if _, err := ch.QueueDeclare(
		RetryName(queue),
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": queue,
		},
	); err != nil {
		return err
	}

	// Main queue: dead-letter to DLQ on reject/nack(requeue=false)
	if _, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": DLQName(queue),
		},
	); err != nil {
		return err
	}

	return nil
}
