package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// LoginAgain is shown whenever the backend answers 401.
const LoginAgain = "Session expired, please login again"

// Notice is a transient user-visible message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Multi fans a notice out to every non-nil notifier.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notice) {
		for _, nt := range notifiers {
			if nt != nil {
				nt.Notify(ctx, n)
			}
		}
	})
}

// LogNotifier writes notices to zap.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log)}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notice) {
	log := logger.For(ctx, l.log)
	if n.Level == LevelError {
		log.Warn("notice", zap.String("message", n.Message))
		return
	}
	log.Info("notice", zap.String("level", string(n.Level)), zap.String("message", n.Message))
}

// Collector accumulates the notices raised while serving one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// add skips a notice identical to one already collected.
func (c *Collector) add(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, seen := range c.notices {
		if seen == n {
			return
		}
	}
	c.notices = append(c.notices, n)
}

// Notices returns a copy, never nil.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type collectorKey struct{}

// WithCollector attaches a fresh Collector to ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

func CollectorFrom(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

// ContextNotifier delivers to the Collector carried by ctx, if any.
type ContextNotifier struct{}

func (ContextNotifier) Notify(ctx context.Context, n Notice) {
	if c := CollectorFrom(ctx); c != nil {
		c.add(n)
	}
}

// WriterNotifier prints notices, one per line, for terminal clients.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (p *WriterNotifier) Notify(_ context.Context, n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefix := "•"
	switch n.Level {
	case LevelError:
		prefix = "✗"
	case LevelSuccess:
		prefix = "✓"
	}
	fmt.Fprintf(p.w, "%s %s\n", prefix, n.Message)
}

func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }
