package messaging

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DialRabbitMQ opens a broker connection.
func DialRabbitMQ(url string) (*amqp.Connection, error) {
	if url == "" {
		return nil, fmt.Errorf("rabbitmq URL cannot be empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	log.Println("Successfully connected to RabbitMQ.")
	return conn, nil
}

// CloseRabbitMQ closes the connection if it was opened.
func CloseRabbitMQ(conn *amqp.Connection) {
	if conn != nil && !conn.IsClosed() {
		_ = conn.Close()
		log.Println("RabbitMQ connection closed.")
	}
}
