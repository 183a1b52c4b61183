package in_memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
)

type chatRequests struct {
	mu      sync.Mutex
	closed  bool
	pending map[int64]model.RequestKind
}

// RequestStorage keeps the pending two-step requests of every chat the bot is active in.
// Chats are independent: each one has its own lock.
type RequestStorage struct {
	chats sync.Map // int64 -> *chatRequests
}

func NewRequestStorage() *RequestStorage {
	return &RequestStorage{}
}

// Activate starts accepting requests in the chat. It reports false if the chat was already active.
func (r *RequestStorage) Activate(chatID int64) bool {
	_, loaded := r.chats.LoadOrStore(
		chatID, &chatRequests{
			pending: make(map[int64]model.RequestKind),
		},
	)
	return !loaded
}

// Deactivate drops the chat and every pending request in it. It reports false if the chat was not active.
func (r *RequestStorage) Deactivate(chatID int64) bool {
	value, ok := r.chats.LoadAndDelete(chatID)
	if !ok {
		return false
	}
	chat := value.(*chatRequests)
	chat.mu.Lock()
	chat.closed = true
	clear(chat.pending)
	chat.mu.Unlock()
	return true
}

func (r *RequestStorage) IsActive(chatID int64) bool {
	_, ok := r.chats.Load(chatID)
	return ok
}

// BeginRequest registers a pending request. It fails if the chat is not active or the user is already
// waiting on another request in this chat.
func (r *RequestStorage) BeginRequest(chatID, userID int64, kind model.RequestKind) bool {
	if !kind.IsValid() {
		panic(fmt.Sprintf("begin request with unknown kind %d", kind))
	}
	chat, ok := r.chat(chatID)
	if !ok {
		return false
	}
	chat.mu.Lock()
	defer chat.mu.Unlock()
	if chat.closed {
		return false
	}
	if _, busy := chat.pending[userID]; busy {
		return false
	}
	chat.pending[userID] = kind
	return true
}

// Consume removes the user's pending request of the given kind and reports whether there was one.
func (r *RequestStorage) Consume(chatID, userID int64, kind model.RequestKind) bool {
	if !kind.IsValid() {
		panic(fmt.Sprintf("consume request with unknown kind %d", kind))
	}
	chat, ok := r.chat(chatID)
	if !ok {
		return false
	}
	chat.mu.Lock()
	defer chat.mu.Unlock()
	if pendingKind, found := chat.pending[userID]; !found || pendingKind != kind {
		return false
	}
	delete(chat.pending, userID)
	return true
}

func (r *RequestStorage) HasPending(chatID, userID int64) bool {
	chat, ok := r.chat(chatID)
	if !ok {
		return false
	}
	chat.mu.Lock()
	defer chat.mu.Unlock()
	_, found := chat.pending[userID]
	return found
}

// Pending returns a snapshot of the chat's pending requests ordered by user.
func (r *RequestStorage) Pending(chatID int64) []model.PendingRequest {
	chat, ok := r.chat(chatID)
	if !ok {
		return nil
	}
	chat.mu.Lock()
	requests := make([]model.PendingRequest, 0, len(chat.pending))
	for userID, kind := range chat.pending {
		requests = append(requests, model.PendingRequest{UserID: userID, Kind: kind})
	}
	chat.mu.Unlock()

	sort.Slice(
		requests, func(i, j int) bool {
			return requests[i].UserID < requests[j].UserID
		},
	)
	return requests
}

func (r *RequestStorage) ActiveChats() []int64 {
	chats := make([]int64, 0)
	r.chats.Range(
		func(key, _ any) bool {
			chats = append(chats, key.(int64))
			return true
		},
	)
	sort.Slice(
		chats, func(i, j int) bool {
			return chats[i] < chats[j]
		},
	)
	return chats
}

func (r *RequestStorage) chat(chatID int64) (*chatRequests, bool) {
	value, ok := r.chats.Load(chatID)
	if !ok {
		return nil, false
	}
	return value.(*chatRequests), true
}
