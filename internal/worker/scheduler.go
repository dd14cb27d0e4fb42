package worker

import (
	"context"
	"log/slog"
	"time"
)

// Checker - одна проверка цен. Реализуется usecase.CheckService.
type Checker interface {
	RunTick(ctx context.Context)
}

// Scheduler гоняет проверку цен по фиксированному интервалу.
// Тики не перекрываются: следующий начинается только после завершения
// текущего, отмена контекста срабатывает между тиками.
type Scheduler struct {
	checker  Checker
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(checker Checker, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Run блокируется до отмены контекста. Первый тик выполняется сразу,
// не дожидаясь полного интервала.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", slog.Duration("interval", s.interval))

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	// Тик не должен пережить свой интервал: зависший источник котировок
	// обрубается, затронутые активы считаются недоступными до следующего тика.
	tickCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	s.checker.RunTick(tickCtx)
}
