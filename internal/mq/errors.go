package mq

import "errors"

// Ошибки брокера.
var (
	// ErrConnection — брокер недоступен (dial или открытие канала).
	ErrConnection = errors.New("broker connection failed")

	// ErrDeclaration — очередь уже существует с другими свойствами.
	ErrDeclaration = errors.New("queue declaration failed")

	// ErrConnectionClosed — брокер закрыл соединение или поток доставок.
	ErrConnectionClosed = errors.New("broker connection closed")

	// ErrNoChannel — сессия закрыта, канала нет.
	ErrNoChannel = errors.New("no channel available")
)
