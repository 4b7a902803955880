package logger

import (
	"go.uber.org/zap/zapcore"
)

// MongoCore is a zapcore.Core that tees every entry to the async Mongo
// writer while still delegating to the wrapped console core.
type MongoCore struct {
	zapcore.Core
	writer *MongoLogWriter
}

func NewMongoCore(baseCore zapcore.Core, writer *MongoLogWriter) zapcore.Core {
	return &MongoCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *MongoCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var ip, tenantID string

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
		switch f.Key {
		case "ip":
			ip = f.String
		case "tenantId":
			tenantID = f.String
		}
	}

	c.writer.AddLog(LogEntry{
		Level:     entry.Level,
		Message:   entry.Message,
		IpAddress: ip,
		TenantID:  tenantID,
		Caller:    entry.Caller.Function,
	})

	return c.Core.Write(entry, fields)
}

func (c *MongoCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
