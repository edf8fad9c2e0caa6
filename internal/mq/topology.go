package mq

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueue идемпотентно объявляет очередь с указанной персистентностью.
//
// Объявление должно совпадать с объявлением producer'а: если очередь уже
// существует с другими свойствами, брокер отвечает PRECONDITION_FAILED
// и закрывает канал. Любая ошибка оборачивается в ErrDeclaration.
func (s *Session) DeclareQueue(name string, durable bool) error {
	err := s.WithChannel(func(ch *amqp.Channel) error {
		_, err := ch.QueueDeclare(
			name,    // name
			durable, // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		return err
	})
	if err != nil {
		return declarationError(name, err)
	}

	s.logger.Debug("queue declared", "queue", name, "durable", durable)
	return nil
}

func declarationError(name string, err error) error {
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) && amqpErr.Code == amqp.PreconditionFailed {
		return fmt.Errorf("%w: queue %s exists with different properties: %s", ErrDeclaration, name, amqpErr.Reason)
	}
	return fmt.Errorf("%w: declare queue %s: %w", ErrDeclaration, name, err)
}
