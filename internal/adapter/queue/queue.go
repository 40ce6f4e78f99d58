package queue

// MessageQueue defines the interface for publishing and consuming
// assistant events (routed queries, ingestion notifications).
type MessageQueue interface {
	Publish(subject string, data []byte) error
	PublishJSON(subject string, payload interface{}) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
