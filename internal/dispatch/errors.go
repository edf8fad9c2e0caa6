package dispatch

import "errors"

// Ошибки запуска команды. Никогда не прерывают цикл потребления.
var (
	// ErrSpawn — команду не удалось запустить или дождаться (файл не найден, нет прав).
	ErrSpawn = errors.New("command spawn failed")

	// ErrCommandFailed — команда завершилась с ненулевым кодом.
	ErrCommandFailed = errors.New("command exited with non-zero status")

	// ErrTimeout — команда превысила CommandTimeout и была убита.
	ErrTimeout = errors.New("command timed out")
)
