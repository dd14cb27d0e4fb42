package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
	"github.com/romanzzaa/crypto-price-notifier/internal/registry"
)

// CheckService - один проход цикла "забрать цены, сверить пороги, разослать".
type CheckService struct {
	registry *registry.Registry
	source   domain.PriceSource
	notifier domain.Notifier
	logger   *slog.Logger
}

func NewCheckService(
	reg *registry.Registry,
	source domain.PriceSource,
	notifier domain.Notifier,
	logger *slog.Logger,
) *CheckService {
	return &CheckService{
		registry: reg,
		source:   source,
		notifier: notifier,
		logger:   logger,
	}
}

// RunTick выполняет один тик опроса. Ошибки источника и доставки изолированы:
// актив без котировки пропускается до следующего тика, неудачная доставка
// одному подписчику не трогает остальных. Пустой реестр - тик без сети.
func (s *CheckService) RunTick(ctx context.Context) {
	assets := s.registry.WatchedAssets()
	if len(assets) == 0 {
		return
	}

	s.logger.Debug("requesting quotes", slog.Any("assets", assets))

	quotes, err := s.source.GetQuotes(ctx, assets)
	if err != nil {
		s.logger.Error("failed to fetch quotes",
			slog.Any("assets", assets),
			slog.String("err", err.Error()))
		return
	}

	for _, asset := range assets {
		price, ok := quotes[asset]
		if !ok {
			// Источник не вернул котировку - актив ждет следующего тика.
			s.logger.Warn("quote missing, skipping asset", slog.String("asset", asset))
			continue
		}
		s.checkAsset(ctx, asset, price.Round(domain.PricePrecision))
	}
}

func (s *CheckService) checkAsset(ctx context.Context, asset string, price decimal.Decimal) {
	var wg sync.WaitGroup
	for chatID, pair := range s.registry.SubscribersFor(asset) {
		direction := Evaluate(price, pair)
		if direction == domain.DirectionNone {
			continue
		}

		event := domain.CrossingEvent{
			Asset:     asset,
			ChatID:    chatID,
			Price:     price,
			Direction: direction,
		}

		// Доставки независимы: медленный или упавший чат не держит остальных.
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.dispatch(event)
		}()
	}

	// Зависшая доставка не должна держать цикл опроса: ждем не дольше
	// дедлайна тика, отставшие горутины доживают в фоне.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("tick deadline reached with deliveries still in flight",
			slog.String("asset", asset))
	}
}

func (s *CheckService) dispatch(event domain.CrossingEvent) {
	if err := s.notifier.NotifyUser(event.ChatID, CrossingMessage(event)); err != nil {
		s.logger.Error("notification delivery failed",
			slog.Int64("chat_id", event.ChatID),
			slog.String("asset", event.Asset),
			slog.String("err", err.Error()))
		return
	}

	s.logger.Info("notification sent",
		slog.Int64("chat_id", event.ChatID),
		slog.String("asset", event.Asset),
		slog.String("price", event.Price.String()))
}

// CrossingMessage рендерит текст уведомления о пробое.
func CrossingMessage(event domain.CrossingEvent) string {
	if event.Direction == domain.DirectionUp {
		return fmt.Sprintf("Цена %s достигла %s USD!", event.Asset, event.Price.String())
	}
	return fmt.Sprintf("Цена %s упала до %s USD!", event.Asset, event.Price.String())
}
