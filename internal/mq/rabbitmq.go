package mq

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rekrut-id/apiserver/config"
)

const rabbitAppID = "rekrut-apiserver"

// RabbitMQClient publishes to and consumes from queues named after channels,
// using the default exchange.
type RabbitMQClient struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	queueDurable    bool
	queueAutoDelete bool

	mu       sync.Mutex
	declared map[string]struct{}
}

// NewRabbitMQClient dials the broker and opens one channel.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQClient{
		conn:            conn,
		channel:         ch,
		queueDurable:    cfg.QueueDurable,
		queueAutoDelete: cfg.QueueAutoDelete,
		declared:        map[string]struct{}{},
	}, nil
}

// Publish sends data to the queue named channel. The content_type attribute
// becomes the AMQP content type; other attributes travel as headers.
// Messages on durable queues are persistent.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}
	if err := r.ensureQueue(channel); err != nil {
		return "", err
	}

	msg := amqp.Publishing{
		ContentType: "application/octet-stream",
		MessageId:   newMessageID(),
		Timestamp:   time.Now().UTC(),
		AppId:       rabbitAppID,
		Headers:     amqp.Table{},
		Body:        data,
	}
	if r.queueDurable {
		msg.DeliveryMode = amqp.Persistent
	}
	for key, value := range attrs {
		if key == AttrContentType {
			msg.ContentType = value
			continue
		}
		msg.Headers[key] = value
	}

	if err := r.channel.PublishWithContext(ctx, "", channel, false, false, msg); err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return msg.MessageId, nil
}

// Subscribe consumes the queue named channel until ctx is done. A handler
// error requeues the delivery.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	if err := r.ensureQueue(channel); err != nil {
		return err
	}

	consumerTag := fmt.Sprintf("%s-%s", rabbitAppID, newMessageID())
	deliveries, err := r.channel.Consume(channel, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, deliveryMessage(delivery)); err != nil {
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close closes the channel and the connection.
func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// ensureQueue declares each queue once per client.
func (r *RabbitMQClient) ensureQueue(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.declared[name]; ok {
		return nil
	}
	if _, err := r.channel.QueueDeclare(name, r.queueDurable, r.queueAutoDelete, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	r.declared[name] = struct{}{}
	return nil
}

func deliveryMessage(delivery amqp.Delivery) Message {
	attrs := headersToAttributes(delivery.Headers)
	if delivery.ContentType != "" {
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs[AttrContentType] = delivery.ContentType
	}
	return Message{
		ID:         delivery.MessageId,
		Data:       delivery.Body,
		Attributes: attrs,
	}
}

func headersToAttributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(headers))
	for key, value := range headers {
		switch typed := value.(type) {
		case string:
			attrs[key] = typed
		case []byte:
			attrs[key] = string(typed)
		default:
			attrs[key] = fmt.Sprint(value)
		}
	}
	return attrs
}

func newMessageID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
