package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/messaging/kafka"
)

// initKafkaProducer поднимает producer для событий заявок и DLQ уведомлений.
// Kafka опционален: при пустом списке брокеров или ошибке подключения бот
// продолжает работать без публикации событий, возвращается nil producer.
func initKafkaProducer(brokers string, logger *log.Entry) (*kafka.Producer, error) {
	if brokers == "" {
		return nil, nil
	}

	brokerList := strings.Split(brokers, ",")
	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("kafka producer не создан, продолжаем без публикации событий")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer инициализирован")
	return producer, nil
}

// closeKafka закрывает producer при остановке приложения. nil допустим.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("ошибка при закрытии kafka producer")
	} else {
		logger.Info("kafka producer закрыт")
	}
}
