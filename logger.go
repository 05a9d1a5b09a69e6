package smp

import (
	"fmt"
	"log"
	"sync"
)

// DefaultLogger writes LogMessages through the standard library logger.
type DefaultLogger struct{}

func (l *DefaultLogger) Debug(args *LogMessage) {
	log.Print(formatLogMessage("[DEBUG]", args))
}

func (l *DefaultLogger) Info(args *LogMessage) {
	log.Print(formatLogMessage("[INFO]", args))
}

func (l *DefaultLogger) Warn(args *LogMessage) {
	log.Print(formatLogMessage("[WARN]", args))
}

func (l *DefaultLogger) Error(args *LogMessage) {
	log.Print(formatLogMessage("[ERROR]", args))
}

func formatLogMessage(level string, args *LogMessage) string {
	return fmt.Sprintf("%s channel=%s action=%s message_id=%s message_type=%s destination=%s status=%s subscriber=%s spend_time=%dms message=%s",
		level,
		args.ChannelName,
		args.Action,
		args.MessageID,
		args.MessageType,
		args.Destination,
		args.Status,
		args.Subscriber,
		args.SpendTime,
		args.Message,
	)
}

var (
	loggerInstance Logger
	once           sync.Once
)

func setDefaultLogger(logger Logger) {
	once.Do(func() {
		loggerInstance = logger
	})
}

func getDefaultLogger() Logger {
	if loggerInstance == nil {
		return &DefaultLogger{}
	}
	return loggerInstance
}
