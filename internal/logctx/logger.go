// Context carried diagnostic logger. Buffers events and hands them to a single watcher for output
package logctx

import (
	"context"
	"svclog/internal/global"
	"sync"
	"time"
)

// Creates a logger that stops its watcher once done is closed.
//
// logLevel is the verbosity ceiling (0 quiet ... 5 debug), see global.Verbosity
func NewLogger(id string, logLevel int, done <-chan struct{}) (logger *Logger) {
	logger = &Logger{
		ID:         id,
		CreatedAt:  time.Now(),
		queue:      make([]Event, 0),
		Done:       done,
		PrintLevel: logLevel,
		wg:         &sync.WaitGroup{},
	}
	logger.cond = sync.NewCond(&logger.mutex)
	return
}

// Logger Constructor.
// Embeds logger in returned context using provided context as base.
func New(baseCtx context.Context, id string, logLevel int, done <-chan struct{}) (ctxLogger context.Context) {
	ctxLogger = WithLogger(baseCtx, NewLogger(id, logLevel, done))
	return
}

// Attach the logger to context
func WithLogger(ctx context.Context, logger *Logger) (ctxLogger context.Context) {
	ctxLogger = context.WithValue(ctx, global.LoggerKey, logger)
	return
}

// Copies the logger (and only the logger) from one context into another
func Inherit(dst context.Context, src context.Context) (ctxLogger context.Context) {
	ctxLogger = dst
	logger := GetLogger(src)
	if logger != nil {
		ctxLogger = WithLogger(dst, logger)
	}
	return
}

// Extracts Logger from context or returns nil
func GetLogger(ctx context.Context) (logger *Logger) {
	logger, ok := ctx.Value(global.LoggerKey).(*Logger)
	if ok {
		return
	}
	logger = nil
	return
}

// Change the logger's level
func SetLogLevel(ctx context.Context, newLevel int) {
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}
	logger.mutex.Lock()
	logger.PrintLevel = newLevel
	logger.mutex.Unlock()
}

// Hold main thread exit until logger is finished its work
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Wake signals/broadcasts to any goroutines waiting on the condition variable
func (logger *Logger) Wake() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.cond.Broadcast()
}
