// Package mq предоставляет тонкий слой над RabbitMQ (AMQP 0-9-1).
//
// Структура:
//   - connection.go — сессия с брокером (одно соединение, один канал)
//   - topology.go   — объявление очереди
//   - consumer.go   — синхронный цикл потребления с auto-ack
//   - publisher.go  — публикация payload в очередь (для dispatcher-cli)
//
// Переподключения нет: разрыв соединения — фатальная ошибка,
// процесс завершается, перезапуск — забота супервизора.
package mq
