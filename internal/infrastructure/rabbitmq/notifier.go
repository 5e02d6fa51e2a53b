package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stockflow/stockflow-api/internal/application/alerts"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

var _ alerts.Notifier = (*Notifier)(nil)

// Notifier publica lotes de alertas de reorden en una cola durable de
// RabbitMQ. Los consumidores (email, Slack, lo que sea) viven fuera de esta API.
type Notifier struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewNotifier conecta, abre un canal y declara la cola durable.
func NewNotifier(url, queue string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Notifier{conn: conn, ch: ch, queue: queue}, nil
}

// Close cierra canal y conexión.
func (n *Notifier) Close() {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

// alertBatch es el mensaje publicado por corrida de alertas.
type alertBatch struct {
	CompanyID   string                `json:"company_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Alerts      []entity.ReorderAlert `json:"alerts"`
}

// PublishAlerts publica el lote como JSON persistente en la cola.
// Los lotes vacíos no se publican.
func (n *Notifier) PublishAlerts(ctx context.Context, companyID string, alertList []entity.ReorderAlert) error {
	if len(alertList) == 0 {
		return nil
	}
	body, err := json.Marshal(alertBatch{
		CompanyID:   companyID,
		GeneratedAt: time.Now().UTC(),
		Alerts:      alertList,
	})
	if err != nil {
		return fmt.Errorf("marshal alert batch: %w", err)
	}
	err = n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish alert batch: %w", err)
	}
	return nil
}
