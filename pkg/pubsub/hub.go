package pubsub

import (
	"sync"
	"sync/atomic"
)

// Hub раздает сообщения подписчикам по топикам внутри процесса.
// Publish никогда не блокируется: если буфер подписчика заполнен, сообщение для него
// отбрасывается и счетчик Dropped растет. Подписчики, которым важен только факт изменения,
// используют буфер 1 и получают схлопнутые уведомления.
type Hub[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string]map[uint64]*Subscription[T]
	closed bool
}

type Subscription[T any] struct {
	hub     *Hub[T]
	topic   string
	id      uint64
	ch      chan T
	once    sync.Once
	dropped atomic.Uint64
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		topics: make(map[string]map[uint64]*Subscription[T]),
	}
}

// Subscribe регистрирует подписчика. buffer < 1 приравнивается к 1.
func (h *Hub[T]) Subscribe(topic string, buffer int) *Subscription[T] {
	if buffer < 1 {
		buffer = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription[T]{
		hub:   h,
		topic: topic,
		id:    h.nextID,
		ch:    make(chan T, buffer),
	}

	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uint64]*Subscription[T])
		h.topics[topic] = subs
	}
	subs[sub.id] = sub
	return sub
}

// Publish возвращает количество подписчиков, получивших сообщение.
func (h *Hub[T]) Publish(topic string, msg T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.topics[topic] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			sub.dropped.Add(1)
		}
	}
	return delivered
}

// Subscribers возвращает число активных подписчиков топика.
func (h *Hub[T]) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close закрывает каналы всех подписчиков, новые подписки сразу получают закрытый канал.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for topic, subs := range h.topics {
		for _, sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(h.topics, topic)
	}
}

func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Dropped возвращает сколько сообщений было отброшено из-за переполненного буфера.
func (s *Subscription[T]) Dropped() uint64 {
	return s.dropped.Load()
}

// Unsubscribe идемпотентен.
func (s *Subscription[T]) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if subs, ok := s.hub.topics[s.topic]; ok {
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(s.hub.topics, s.topic)
		}
	}
	s.once.Do(func() { close(s.ch) })
}
