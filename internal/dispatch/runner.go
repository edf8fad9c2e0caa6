package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shaiso/Dispatcher/internal/telemetry"
)

// waitDelay — сколько ждать закрытия stdout/stderr после kill по таймауту.
const waitDelay = time.Second

// Outcome — исход запуска команды.
type Outcome string

// Исходы запуска.
const (
	OutcomeSucceeded  Outcome = "succeeded"
	OutcomeFailed     Outcome = "failed"
	OutcomeSpawnError Outcome = "spawn_error"
)

// Result — результат одного запуска команды.
//
// Создаётся на каждое сообщение и отбрасывается после логирования.
type Result struct {
	// Outcome — succeeded (код 0), failed (код != 0) или spawn_error.
	Outcome Outcome

	// ExitCode — код завершения; -1, если процесс не запустился или убит сигналом.
	ExitCode int

	// Stdout, Stderr — захваченный вывод команды.
	Stdout string
	Stderr string

	// Truncated — вывод обрезан по MaxOutputBytes.
	Truncated bool

	// SpawnErr — причина spawn_error.
	SpawnErr error

	// Duration — время выполнения.
	Duration time.Duration
}

// Err возвращает ошибку исхода или nil при успехе.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeSucceeded:
		return nil
	case OutcomeFailed:
		return fmt.Errorf("%w: exit code %d", ErrCommandFailed, r.ExitCode)
	default:
		return fmt.Errorf("%w: %w", ErrSpawn, r.SpawnErr)
	}
}

// Runner запускает фиксированную внешнюю команду.
//
// Payload сообщения в команду не передаётся: ни аргументами, ни через stdin.
type Runner struct {
	// Command — исполняемый файл и аргументы.
	Command []string

	// Timeout — 0 означает ожидание без ограничения.
	Timeout time.Duration

	// MaxOutputBytes — 0 означает захват без ограничения.
	MaxOutputBytes int
}

// String возвращает команду для логов.
func (r *Runner) String() string {
	return strings.Join(r.Command, " ")
}

// Run синхронно запускает команду и ждёт её завершения.
//
// Отмена ctx не прерывает уже запущенную команду: она выполняется
// до конца (или до Timeout, если он задан).
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()

	if len(r.Command) == 0 {
		return Result{
			Outcome:  OutcomeSpawnError,
			ExitCode: -1,
			SpawnErr: errors.New("empty command"),
		}
	}

	runCtx := context.WithoutCancel(ctx)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.Command[0], r.Command[1:]...)
	cmd.WaitDelay = waitDelay

	stdout := &limitedBuffer{limit: r.MaxOutputBytes}
	stderr := &limitedBuffer{limit: r.MaxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	telemetry.FromContext(ctx).Debug("spawning command",
		"path", r.Command[0],
		"args", len(r.Command)-1,
		"timeout", r.Timeout,
	)

	err := cmd.Run()

	res := Result{
		ExitCode:  -1,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  time.Since(start),
	}

	if r.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.Outcome = OutcomeSpawnError
		res.SpawnErr = fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Outcome = OutcomeSucceeded
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.Outcome = OutcomeFailed
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Outcome = OutcomeSpawnError
		res.SpawnErr = err
	}

	return res
}

// limitedBuffer хранит не больше limit байт и молча отбрасывает остаток,
// чтобы команда не блокировалась на записи в pipe.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}

	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}

	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
