// Package natsutil provides typed JSON publish, subscribe and request-reply
// helpers over NATS, propagating OpenTelemetry trace context in headers.
package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// DefaultRequestTimeout bounds Request when ctx has no deadline.
const DefaultRequestTimeout = 2 * time.Second

// headerCarrier adapts nats.Msg headers to propagation.TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// Connect dials url with reconnects enabled and connection state changes
// logged.
func Connect(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("natsutil: connect %s: %w", url, err)
	}
	return nc, nil
}

func encode(ctx context.Context, subject string, v any) (*nats.Msg, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("natsutil: encode %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	return msg, nil
}

func decode[T any](msg *nats.Msg) (context.Context, T, error) {
	var v T
	err := json.Unmarshal(msg.Data, &v)
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*headerCarrier)(msg))
	return ctx, v, err
}

// Publish sends v as JSON on subject.
func Publish[T any](ctx context.Context, nc *nats.Conn, subject string, v T) error {
	msg, err := encode(ctx, subject, v)
	if err != nil {
		return err
	}
	if err := nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("natsutil: publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe decodes each message on subject as T and calls handler with the
// propagated trace context. Messages that fail to decode are dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		ctx, v, err := decode[T](msg)
		if err != nil {
			return
		}
		handler(ctx, v)
	})
}

// Respond serves request-reply on subject. The handler's result is sent back
// as JSON; requests that fail to decode get no reply.
func Respond[Req, Resp any](nc *nats.Conn, subject string, handler func(context.Context, Req) Resp) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		ctx, req, err := decode[Req](msg)
		if err != nil || msg.Reply == "" {
			return
		}
		reply, err := encode(ctx, msg.Reply, handler(ctx, req))
		if err != nil {
			return
		}
		_ = nc.PublishMsg(reply)
	})
}

// Request sends req and decodes the reply. The wait is bounded by ctx, or by
// DefaultRequestTimeout when ctx has no deadline.
func Request[Req, Resp any](ctx context.Context, nc *nats.Conn, subject string, req Req) (Resp, error) {
	var zero Resp
	msg, err := encode(ctx, subject, req)
	if err != nil {
		return zero, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}
	resp, err := nc.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return zero, fmt.Errorf("natsutil: request %s: %w", subject, err)
	}
	_, out, err := decode[Resp](resp)
	if err != nil {
		return zero, fmt.Errorf("natsutil: decode reply %s: %w", subject, err)
	}
	return out, nil
}
