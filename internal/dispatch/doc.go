// Package dispatch запускает внешнюю команду на каждое сообщение из очереди.
//
// # Обзор
//
// Dispatcher — единственный компонент сервиса. Он:
//
//   - Подключается к RabbitMQ (без retry: недоступный брокер — фатальная ошибка)
//   - Объявляет одну очередь (по умолчанию non-durable)
//   - Потребляет её в режиме auto-ack, по одному сообщению за раз
//   - На каждое сообщение синхронно запускает фиксированную команду
//   - Логирует payload, исход запуска и захваченный вывод
//
// # Ключевые компоненты
//
// ## Dispatcher
//
//	d := dispatch.New(dispatch.Config{
//	    URL:    cfg.URL(),
//	    Queue:  cfg.Queue,
//	    Runner: &dispatch.Runner{Command: cfg.Command},
//	    Logger: logger,
//	})
//
//	if err := d.Run(ctx); err != nil {
//	    logger.Error("dispatcher stopped", "error", err)
//	    os.Exit(1)
//	}
//
// ## Runner
//
// Запускает команду и возвращает Result: succeeded (код 0), failed (код != 0)
// или spawn_error (команда не найдена, нет прав, таймаут).
// Payload в команду не передаётся.
//
// # Ошибки
//
// Пакет различает два уровня ошибок:
//   - Фатальные (из Run) — mq.ErrConnection, mq.ErrDeclaration, mq.ErrConnectionClosed
//   - Ошибки сообщения (Result.Err) — ErrCommandFailed, ErrSpawn; только логируются
//
// Сообщение подтверждается брокеру при доставке, поэтому сбой команды
// не приводит к повторной доставке.
//
// # Ограничения
//
// По умолчанию ожидание команды и захват вывода не ограничены: зависшая
// команда блокирует Dispatcher. Runner.Timeout и Runner.MaxOutputBytes
// включают ограничения явно.
package dispatch
