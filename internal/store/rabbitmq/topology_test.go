package rabbitmq

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type declaredQueue struct {
	name    string
	durable bool
	args    amqp.Table
}

type recordingDeclarer struct {
	declared []declaredQueue
	failOn   string
}

func (r *recordingDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if r.failOn != "" && name == r.failOn {
		return amqp.Queue{}, errors.New("declare failed")
	}
	r.declared = append(r.declared, declaredQueue{name: name, durable: durable, args: args})
	return amqp.Queue{Name: name}, nil
}

func TestDeclareTopology_QueueArguments(t *testing.T) {
	rec := &recordingDeclarer{}
	if err := DeclareTopology(rec, "export_jobs"); err != nil {
		t.Fatalf("declare: %v", err)
	}

	if len(rec.declared) != 3 {
		t.Fatalf("expected dlq, retry and main queue, got %+v", rec.declared)
	}

	byName := make(map[string]declaredQueue)
	for _, q := range rec.declared {
		if !q.durable {
			t.Fatalf("queue %q must be durable", q.name)
		}
		byName[q.name] = q
	}

	dlq, ok := byName["export_jobs.dlq"]
	if !ok || dlq.args != nil {
		t.Fatalf("unexpected dlq declaration: %+v", dlq)
	}

	retry, ok := byName["export_jobs.retry"]
	if !ok || retry.args["x-dead-letter-routing-key"] != "export_jobs" {
		t.Fatalf("retry queue must dead-letter back to main, got %+v", retry)
	}

	main, ok := byName["export_jobs"]
	if !ok || main.args["x-dead-letter-routing-key"] != "export_jobs.dlq" {
		t.Fatalf("main queue must dead-letter to dlq, got %+v", main)
	}
	if main.args["x-dead-letter-exchange"] != "" {
		t.Fatalf("main queue must use the default exchange, got %+v", main)
	}
}

func TestDeclareTopology_PropagatesError(t *testing.T) {
	rec := &recordingDeclarer{failOn: RetryName("export_jobs")}
	if err := DeclareTopology(rec, "export_jobs"); err == nil {
		t.Fatalf("expected declare error to propagate")
	}
}
