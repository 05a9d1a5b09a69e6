package smp

import (
	"time"
)

type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionPublish     Action = "publish"
	ActionConsume     Action = "consume"
)

type DeliveryStatus string

const (
	StatusSuccess   DeliveryStatus = "success"
	StatusRetry     DeliveryStatus = "retry"
	StatusError     DeliveryStatus = "error"
	StatusCancelled DeliveryStatus = "cancelled"
)

type LogMessage struct {
	ChannelName string         `json:"channel_name"`
	Action      Action         `json:"action"`
	MessageID   string         `json:"message_id"`
	MessageType MessageType    `json:"message_type"`
	Destination string         `json:"destination"`
	Message     string         `json:"message"`
	Status      DeliveryStatus `json:"status"`
	Subscriber  string         `json:"subscriber"`
	SpendTime   int64          `json:"spend_time"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Logger interface {
	Debug(args *LogMessage)
	Info(args *LogMessage)
	Warn(args *LogMessage)
	Error(args *LogMessage)
}

type Config struct {
	Logger Logger
	Tracer Tracer
}
