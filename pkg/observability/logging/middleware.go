package logging

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// WithLoggingMiddleware creates an MCP middleware that adds request-scoped
// logging. Each forwarded request gets a logger annotated with the MCP
// method, retrievable downstream with FromContext. When the request arrives
// on a server session, the logger additionally forwards entries to the MCP
// client as log notifications.
func WithLoggingMiddleware(base *zap.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (result mcp.Result, err error) {
			requestLogger := base.With(zap.String("mcp_method", method))

			if ss, ok := req.GetSession().(*mcp.ServerSession); ok && ss != nil {
				requestLogger = requestLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
					return zapcore.NewTee(core, newSessionCore(ctx, ss))
				}))
			}

			ctx = WithRequestLogger(ctx, requestLogger)
			return next(ctx, method, req)
		}
	}
}

// WithRequestLogger stores a logger in the given context, making it available
// for retrieval via FromContext throughout the request lifecycle.
func WithRequestLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger stored in the context by WithRequestLogger.
// If no logger is found or the stored value is not a *zap.Logger, it returns
// a no-op logger to ensure safe operation without panics.
func FromContext(ctx context.Context) *zap.Logger {
	logger := ctx.Value(ctxKey{})
	if logger == nil {
		return zap.NewNop()
	}

	zapLogger, ok := logger.(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return zapLogger
}
