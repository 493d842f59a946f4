package rabbitmq

// QueueConfig очередь и ключ маршрутизации в обменнике.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	// SubmissionReviewedKey ключ события проверки ответа администратором
	SubmissionReviewedKey = "submission.reviewed"
	// SubmissionReviewedQueue очередь уведомлений о проверке ответа
	SubmissionReviewedQueue = "notification.submission_reviewed"
)

// GetNotificationQueues возвращает очереди, которые читает воркер уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: SubmissionReviewedQueue, RoutingKey: SubmissionReviewedKey},
	}
}
