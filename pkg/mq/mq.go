// Package mq RabbitMQ发布/订阅封装
//
// Topic交换机 + 路由键（order.created / order.updated / order.deleted），
// 消费者按通配符（order.*）绑定队列。消息体是JSON，持久化投递。
package mq

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Config 连接参数
type Config struct {
	URL          string
	Exchange     string
	ExchangeType string // topic | direct | fanout
}

// Publisher 消息发布者
// amqp.Channel不适合多个goroutine同时发布，Publish用互斥锁串行化
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	lg       *zap.Logger

	mu sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明交换机
func NewPublisher(cfg Config, lg *zap.Logger) (*Publisher, error) {
	conn, channel, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	lg.Info("MQ publisher ready",
		zap.String("exchange", cfg.Exchange),
		zap.String("type", cfg.ExchangeType),
	)
	return &Publisher{conn: conn, channel: channel, exchange: cfg.Exchange, lg: lg}, nil
}

func dial(cfg Config) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dial rabbitmq")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "open channel")
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		cfg.ExchangeType,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, nil, errors.Wrapf(err, "declare exchange %q", cfg.Exchange)
	}

	return conn, channel, nil
}

// Publish 发布JSON消息
// messageID为空时自动生成，消费者可以用它去重
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	if messageID == "" {
		messageID = uuid.NewString()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return errors.Wrapf(err, "publish %s", routingKey)
	}

	p.lg.Debug("Message published",
		zap.String("routing_key", routingKey),
		zap.String("message_id", messageID),
	)
	return nil
}

// Healthy 连接和通道是否可用
func (p *Publisher) Healthy() bool {
	return p != nil && !p.conn.IsClosed() && !p.channel.IsClosed()
}

// Close 关闭通道和连接
func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return stderrors.Join(errs...)
}

// Message 消费到的消息
type Message struct {
	ID          string
	RoutingKey  string
	Body        []byte
	Redelivered bool
}

// Handler 消息处理函数
// 返回error时消息重新入队一次，再次失败则丢弃，避免毒消息无限循环
type Handler func(ctx context.Context, msg Message) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	lg      *zap.Logger
}

// NewConsumer 声明持久化队列并按routingKeys绑定到交换机
func NewConsumer(cfg Config, queue string, routingKeys []string, lg *zap.Logger) (*Consumer, error) {
	conn, channel, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare queue %q", queue)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			_ = channel.Close()
			_ = conn.Close()
			return nil, errors.Wrapf(err, "bind queue %q to %q", q.Name, key)
		}
	}

	lg.Info("MQ consumer ready",
		zap.String("queue", q.Name),
		zap.Strings("routing_keys", routingKeys),
	)
	return &Consumer{conn: conn, channel: channel, queue: q.Name, lg: lg}, nil
}

// Queue 队列名
func (c *Consumer) Queue() string {
	return c.queue
}

// Consume 阻塞消费，直到ctx取消或连接断开
// 手动ACK，prefetch=1：一条处理完再取下一条
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return errors.Wrap(err, "set qos")
	}

	deliveries, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "start consuming")
	}

	for {
		select {
		case <-ctx.Done():
			c.lg.Info("Consumer stopped", zap.String("queue", c.queue))
			return nil

		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			msg := Message{
				ID:          d.MessageId,
				RoutingKey:  d.RoutingKey,
				Body:        d.Body,
				Redelivered: d.Redelivered,
			}
			if err := handler(ctx, msg); err != nil {
				c.lg.Warn("Message handling failed",
					zap.String("routing_key", d.RoutingKey),
					zap.String("message_id", d.MessageId),
					zap.Bool("requeue", !d.Redelivered),
					zap.Error(err),
				)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close 关闭通道和连接
func (c *Consumer) Close() error {
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return stderrors.Join(errs...)
}
