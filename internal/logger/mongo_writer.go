package logger

import (
	"context"
	"fmt"
	"time"

	"store-console/internal/config"
	"store-console/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the background worker.
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	TenantID  string
	Caller    string
}

type logRecord struct {
	AppID        string    `bson:"app_id"`
	Message      string    `bson:"message"`
	IpAddress    string    `bson:"ip_address,omitempty"`
	TenantID     string    `bson:"tenant_id,omitempty"`
	Caller       string    `bson:"caller,omitempty"`
	Level        string    `bson:"level"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}

// MongoLogWriter buffers log entries and writes them to the logs
// collection off the request path.
type MongoLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string
}

func NewMongoLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *MongoLogWriter {
	writer := &MongoLogWriter{
		collection: mongodb.DB.Collection("logs"),
		logChan:    make(chan LogEntry, 1000),
		appId:      cfg.AppId,
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by the zap core. Never blocks: a full buffer drops
// the entry instead of stalling a request.
func (w *MongoLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("Log buffer full! Dropping log:", entry.Message)
	}
}

func (w *MongoLogWriter) processLogs() {
	for entry := range w.logChan {
		record := logRecord{
			AppID:        w.appId,
			Message:      entry.Message,
			IpAddress:    entry.IpAddress,
			TenantID:     entry.TenantID,
			Caller:       entry.Caller,
			Level:        entry.Level.String(),
			CreatedOnUtc: time.Now().UTC(),
		}

		// Insert errors are swallowed so logging can never take the app down
		w.collection.InsertOne(context.Background(), record)
	}
}
