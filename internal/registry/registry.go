package registry

import (
	"errors"
	"iter"
	"maps"
	"sync"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// Registry - реестр подписок: актив -> (чат -> пороги).
// Пишется обработчиками команд и читается тиком опроса параллельно,
// поэтому вся структура живет под RWMutex.
type Registry struct {
	mu        sync.RWMutex
	watchlist map[string]map[int64]domain.ThresholdPair
}

func New() *Registry {
	return &Registry{
		watchlist: make(map[string]map[int64]domain.ThresholdPair),
	}
}

// Upsert сохраняет пороги для пары (актив, чат), полностью перезаписывая
// старые (никакого слияния границ). Пустая пара означает удаление подписки.
// Ошибок нет: командный слой, которому важен not-found, зовет Remove сам.
func (r *Registry) Upsert(asset string, chatID int64, pair domain.ThresholdPair) {
	if pair.IsEmpty() {
		_ = r.Remove(asset, chatID)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chats := r.watchlist[asset]
	if chats == nil {
		chats = make(map[int64]domain.ThresholdPair)
		r.watchlist[asset] = chats
	}
	chats[chatID] = pair
}

// Remove удаляет подписку. Опустевший актив вычищается сразу, чтобы
// WatchedAssets не тянул лишние символы в запрос котировок.
func (r *Registry) Remove(asset string, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats, ok := r.watchlist[asset]
	if !ok {
		return ErrSubscriptionNotFound
	}
	if _, ok := chats[chatID]; !ok {
		return ErrSubscriptionNotFound
	}

	delete(chats, chatID)
	if len(chats) == 0 {
		delete(r.watchlist, asset)
	}
	return nil
}

// ListFor перечисляет подписки одного чата. Порядок не гарантируется,
// сортировка - забота вызывающего.
func (r *Registry) ListFor(chatID int64) iter.Seq2[string, domain.ThresholdPair] {
	return func(yield func(string, domain.ThresholdPair) bool) {
		r.mu.RLock()
		defer r.mu.RUnlock()

		for asset, chats := range r.watchlist {
			pair, ok := chats[chatID]
			if !ok {
				continue
			}
			if !yield(asset, pair) {
				return
			}
		}
	}
}

// WatchedAssets - все активы, на которые есть хотя бы одна подписка.
func (r *Registry) WatchedAssets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]string, 0, len(r.watchlist))
	for asset := range r.watchlist {
		assets = append(assets, asset)
	}
	return assets
}

// SubscribersFor возвращает копию подписчиков актива: тик работает со
// снимком, мутации команд посреди тика его не рвут.
func (r *Registry) SubscribersFor(asset string) map[int64]domain.ThresholdPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.watchlist[asset])
}
