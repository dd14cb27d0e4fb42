package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
	"github.com/romanzzaa/crypto-price-notifier/internal/registry"
	"github.com/romanzzaa/crypto-price-notifier/internal/usecase"
)

type fakeSource struct {
	mu     sync.Mutex
	quotes map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeSource) GetQuotes(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	out := make(map[string]decimal.Decimal)
	for _, s := range symbols {
		if price, ok := f.quotes[s]; ok {
			out[s] = price
		}
	}
	return out, nil
}

func (f *fakeSource) AssetExists(ctx context.Context, symbol string) (bool, error) {
	quotes, err := f.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return false, err
	}
	_, ok := quotes[symbol]
	return ok, nil
}

type delivery struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu        sync.Mutex
	failFor   map[int64]error
	delivered []delivery
	attempts  int
}

func (f *fakeNotifier) NotifyUser(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.delivered = append(f.delivered, delivery{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) deliveries() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery(nil), f.delivered...)
}

func newFixture(t *testing.T) (*registry.Registry, *fakeSource, *fakeNotifier, *usecase.CheckService) {
	t.Helper()
	reg := registry.New()
	source := &fakeSource{quotes: make(map[string]decimal.Decimal)}
	notifier := &fakeNotifier{failFor: make(map[int64]error)}
	service := usecase.NewCheckService(reg, source, notifier, slog.New(slog.DiscardHandler))
	return reg, source, notifier, service
}

func TestRunTickEmitsSingleCrossing(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))
	source.quotes["BTC"] = decimal.RequireFromString("21000")

	service.RunTick(context.Background())

	got := notifier.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].chatID)
	assert.Equal(t, "Цена BTC достигла 21000 USD!", got[0].text)
}

func TestRunTickDownCrossing(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("ETH", 7, domain.NewThresholdPair(
		decimal.RequireFromString("3000"), decimal.Zero))
	source.quotes["ETH"] = decimal.RequireFromString("2500")

	service.RunTick(context.Background())

	got := notifier.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "Цена ETH упала до 2500 USD!", got[0].text)
}

func TestRunTickEmptyRegistrySkipsFetch(t *testing.T) {
	_, source, notifier, service := newFixture(t)

	service.RunTick(context.Background())

	assert.Zero(t, source.calls, "empty watchlist must not hit the network")
	assert.Empty(t, notifier.deliveries())
}

func TestRunTickNoCrossingNoNotification(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.RequireFromString("10000"), decimal.RequireFromString("20000")))
	source.quotes["BTC"] = decimal.RequireFromString("15000")

	service.RunTick(context.Background())

	assert.Empty(t, notifier.deliveries())
}

func TestRunTickMissingQuoteSkipsOnlyThatAsset(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))
	reg.Upsert("ETH", 2, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("3000")))

	// BTC выпал из ответа источника, ETH на месте.
	source.quotes["ETH"] = decimal.RequireFromString("3500")

	service.RunTick(context.Background())

	got := notifier.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].chatID)
}

func TestRunTickSourceErrorSkipsWholeTick(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))
	source.err = errors.New("upstream down")

	service.RunTick(context.Background())

	assert.Empty(t, notifier.deliveries())
}

func TestRunTickDeliveryFailureIsolated(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))
	reg.Upsert("BTC", 2, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("19000")))

	source.quotes["BTC"] = decimal.RequireFromString("21000")
	notifier.failFor[1] = errors.New("chat blocked the bot")

	service.RunTick(context.Background())

	assert.Equal(t, 2, notifier.attempts, "both deliveries must be attempted")
	got := notifier.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].chatID)
}

func TestRunTickRenotifiesEveryTick(t *testing.T) {
	reg, source, notifier, service := newFixture(t)

	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))
	source.quotes["BTC"] = decimal.RequireFromString("21000")

	service.RunTick(context.Background())
	service.RunTick(context.Background())
	service.RunTick(context.Background())

	assert.Len(t, notifier.deliveries(), 3)
}

type blockingNotifier struct {
	release chan struct{}
}

func (b *blockingNotifier) NotifyUser(int64, string) error {
	<-b.release
	return nil
}

func TestRunTickStuckDeliveryDoesNotStallTick(t *testing.T) {
	reg := registry.New()
	source := &fakeSource{quotes: map[string]decimal.Decimal{
		"BTC": decimal.RequireFromString("21000"),
	}}
	notifier := &blockingNotifier{release: make(chan struct{})}
	defer close(notifier.release)

	service := usecase.NewCheckService(reg, source, notifier, slog.New(slog.DiscardHandler))
	reg.Upsert("BTC", 1, domain.NewThresholdPair(
		decimal.Zero, decimal.RequireFromString("20000")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		service.RunTick(ctx)
		close(done)
	}()

	select {
	case <-done:
		// Тик отпустил управление по дедлайну, доставка осталась висеть в фоне.
	case <-time.After(time.Second):
		t.Fatal("tick did not return after its context expired")
	}
}

func TestCrossingMessage(t *testing.T) {
	up := domain.CrossingEvent{
		Asset:     "BTC",
		Price:     decimal.RequireFromString("21000.5"),
		Direction: domain.DirectionUp,
	}
	down := domain.CrossingEvent{
		Asset:     "ETH",
		Price:     decimal.RequireFromString("2500"),
		Direction: domain.DirectionDown,
	}

	assert.Equal(t, "Цена BTC достигла 21000.5 USD!", usecase.CrossingMessage(up))
	assert.Equal(t, "Цена ETH упала до 2500 USD!", usecase.CrossingMessage(down))
}
