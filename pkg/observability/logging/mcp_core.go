package logging

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap/zapcore"
)

var zapToMCPLevel = map[zapcore.Level]mcp.LoggingLevel{
	zapcore.DebugLevel:  "debug",
	zapcore.InfoLevel:   "info",
	zapcore.WarnLevel:   "warning",
	zapcore.ErrorLevel:  "error",
	zapcore.DPanicLevel: "critical",
	zapcore.PanicLevel:  "alert",
	zapcore.FatalLevel:  "emergency",
}

// sessionCore is a zapcore.Core that forwards log entries to the connected
// MCP client as log notifications. Entries are rendered into a plain map
// with zapcore's map encoder; the session decides whether to transmit them
// based on the level the client requested.
type sessionCore struct {
	ctx    context.Context
	ss     *mcp.ServerSession
	fields []zapcore.Field
}

func newSessionCore(ctx context.Context, ss *mcp.ServerSession) zapcore.Core {
	return &sessionCore{ctx: ctx, ss: ss}
}

func (c *sessionCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *sessionCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &sessionCore{ctx: c.ctx, ss: c.ss, fields: merged}
}

func (c *sessionCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

func (c *sessionCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	data := enc.Fields
	data["msg"] = ent.Message
	data["ts"] = ent.Time
	if ent.Caller.Defined {
		data["caller"] = ent.Caller.String()
	}

	level, ok := zapToMCPLevel[ent.Level]
	if !ok {
		level = "info"
	}

	return c.ss.Log(c.ctx, &mcp.LoggingMessageParams{
		Data:   data,
		Level:  level,
		Logger: ent.LoggerName,
	})
}

func (c *sessionCore) Sync() error {
	return nil
}
