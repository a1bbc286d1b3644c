package rpc

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MethodLog is the notification carrying server log lines to the client.
// Its params are protocol.LogMessageParams, as in window/logMessage.
const MethodLog = "jsep/log"

// Notifier sends notifications. jsonrpc2.Conn implements it.
type Notifier interface {
	Notify(ctx context.Context, method string, params any) error
}

// clientLogCore is a zapcore.Core that forwards entries as jsep/log notifications.
type clientLogCore struct {
	notifier Notifier
	level    zapcore.Level
	encoder  zapcore.Encoder
	fields   []zapcore.Field
	mu       *sync.Mutex

	ctx   context.Context
	queue chan *protocol.LogMessageParams
}

// NewClientLogger returns a logger writing to fallback and forwarding entries
// at or above level to the client. Delivery is asynchronous and drops entries
// when the queue is full. Call stop once the connection is done.
func NewClientLogger(notifier Notifier, fallback zapcore.Core, level zapcore.Level) (logger *zap.Logger, stop func()) {
	ctx, cancel := context.WithCancel(context.Background())

	core := &clientLogCore{
		notifier: notifier,
		level:    level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		mu:    &sync.Mutex{},
		ctx:   ctx,
		queue: make(chan *protocol.LogMessageParams, 100),
	}

	go core.send()

	return zap.New(zapcore.NewTee(core, fallback)), cancel
}

func (c *clientLogCore) send() {
	for {
		select {
		case params := <-c.queue:
			// The client may be gone.
			_ = c.notifier.Notify(c.ctx, MethodLog, params)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *clientLogCore) Enabled(level zapcore.Level) bool {
	return level >= c.level
}

func (c *clientLogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.encoder = c.encoder.Clone()
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)

	return &clone
}

func (c *clientLogCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

func (c *clientLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	buf, err := c.encoder.EncodeEntry(entry, append(c.fields, fields...))
	c.mu.Unlock()

	if err != nil {
		return err
	}

	params := &protocol.LogMessageParams{Type: messageType(entry.Level), Message: strings.TrimSpace(buf.String())}
	buf.Free()

	select {
	case c.queue <- params:
	default:
	}

	return nil
}

func (c *clientLogCore) Sync() error {
	return nil
}

func messageType(level zapcore.Level) protocol.MessageType {
	switch level {
	case zapcore.DebugLevel:
		return protocol.MessageTypeLog
	case zapcore.InfoLevel:
		return protocol.MessageTypeInfo
	case zapcore.WarnLevel:
		return protocol.MessageTypeWarning
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return protocol.MessageTypeError
	default:
		return protocol.MessageTypeInfo
	}
}
