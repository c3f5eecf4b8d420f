package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очереди обменника notifications, которые читает внешний бот-нотификатор.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.sync", RoutingKey: "panel.sync"},
		{QueueName: "notifications.deactivated", RoutingKey: "panel.deactivated"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
