package queue

import (
    "context"
    "encoding/json"
    "errors"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Publisher delivers an event to the queue named by routingKey.
type Publisher interface {
    Publish(ctx context.Context, routingKey string, event any) error
}

// Nop discards events.  Used when RABBITMQ_URL is unset.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// ErrBrokerUnavailable is returned without dialing while a failed dial is
// backing off.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

const (
    minRedialBackoff = time.Second
    maxRedialBackoff = time.Minute
)

// AMQPPublisher keeps one connection and opens a channel per publish.  A
// dropped connection is redialed on the next publish; after a failed dial
// publishes fail fast until the backoff (1s doubling to 1m) has passed.
type AMQPPublisher struct {
    url  string
    log  *zap.Logger
    now  func() time.Time
    dial func(url string) (*amqp.Connection, error)

    mu      sync.Mutex
    conn    *amqp.Connection
    backoff time.Duration
    retryAt time.Time
}

func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
    return &AMQPPublisher{
        url: url,
        log: log,
        now: time.Now,
        dial: func(url string) (*amqp.Connection, error) {
            return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
        },
    }
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.conn != nil && !p.conn.IsClosed() {
        return p.conn, nil
    }
    if p.now().Before(p.retryAt) {
        return nil, ErrBrokerUnavailable
    }
    conn, err := p.dial(p.url)
    if err != nil {
        p.backoff = min(max(2*p.backoff, minRedialBackoff), maxRedialBackoff)
        p.retryAt = p.now().Add(p.backoff)
        return nil, err
    }
    p.conn, p.backoff, p.retryAt = conn, 0, time.Time{}
    return conn, nil
}

// Publish declares the durable queue and sends event as persistent JSON.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
    body, err := json.Marshal(event)
    if err != nil {
        return err
    }
    conn, err := p.connection()
    if err != nil {
        p.log.Warn("rabbitmq dial failed", zap.String("queue", routingKey), zap.Error(err))
        return err
    }
    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("rabbitmq channel open failed", zap.String("queue", routingKey), zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(routingKey, true, false, false, false, nil); err != nil {
        p.log.Warn("rabbitmq queue declare failed", zap.String("queue", routingKey), zap.Error(err))
        return err
    }
    err = ch.PublishWithContext(ctx, "", routingKey, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        p.log.Warn("rabbitmq publish failed", zap.String("queue", routingKey), zap.Error(err))
    }
    return err
}

// Close closes the underlying connection, if any.
func (p *AMQPPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.conn == nil {
        return nil
    }
    err := p.conn.Close()
    p.conn = nil
    if errors.Is(err, amqp.ErrClosed) {
        return nil
    }
    return err
}

// Recorder keeps published events in memory.  Tests use it to assert what a
// handler emitted.
type Recorder struct {
    mu     sync.Mutex
    Events []Recorded
}

// Recorded is one captured publish.
type Recorded struct {
    RoutingKey string
    Event      any
}

func (r *Recorder) Publish(_ context.Context, routingKey string, event any) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.Events = append(r.Events, Recorded{RoutingKey: routingKey, Event: event})
    return nil
}

// Keys returns the routing keys published so far, in order.
func (r *Recorder) Keys() []string {
    r.mu.Lock()
    defer r.mu.Unlock()
    keys := make([]string, 0, len(r.Events))
    for _, e := range r.Events {
        keys = append(keys, e.RoutingKey)
    }
    return keys
}
