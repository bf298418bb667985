package delivery_events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"marketplace/internal/entities"
	"marketplace/internal/service/settlement"
	"marketplace/pkg/logger"
)

const defaultRedeliveryPause = time.Second

type Handler struct {
	settlementService        Service
	retrier                  Retrier
	log                      handlerLogger
	messageProcessingTimeout time.Duration
	redeliveryPause          time.Duration
}

type Option func(*Handler)

// WithRedeliveryPause задает паузу перед выходом из ConsumeClaim, когда
// сообщение оставлено без коммита из-за временного сбоя.
func WithRedeliveryPause(d time.Duration) Option {
	return func(h *Handler) {
		h.redeliveryPause = d
	}
}

func New(log handlerLogger, settlementService Service, retrier Retrier, timeout time.Duration, opts ...Option) *Handler {
	handlerLog := log.With(
		logger.NewField("handler", "delivery.events"),
	)

	h := &Handler{
		settlementService:        settlementService,
		retrier:                  retrier,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
		redeliveryPause:          defaultRedeliveryPause,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("delivery.events: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("delivery.events: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение.
// Возвращает true, если нужно прервать ConsumeClaim без коммита оффсета.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var msg deliveryEventMessage
	err := json.Unmarshal(message.Value, &msg)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("delivery.events handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("event", msg.ID),
		logger.NewField("type", msg.Type),
		logger.NewField("delivery", msg.DeliveryID),
		logger.NewField("offset", message.Offset),
	)

	var processed bool
	err = h.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		var processErr error
		processed, processErr = h.settlementService.ProcessEvent(ctx, msg.toEntity())
		return processErr
	})
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("delivery.events handler context cancelled, message will be reprocessed")
			return true

		case isPermanent(err):
			// повтор не изменит результат, сообщение пропускаем
			msgLog.With(
				logger.NewField("error", err),
			).Error("delivery.events handler rejected event")
			sess.MarkMessage(message, "")
			return false

		case errors.Is(err, settlement.ErrEventInProgress):
			msgLog.Info("delivery.events handler event is still handled by another worker, message will be reprocessed")

		case errors.Is(err, settlement.ErrRetriesExhausted):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("delivery.events handler event is cooling down, message will be reprocessed")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Warn("delivery.events handler failed to process event, message will be reprocessed")
		}

		// оффсет не коммитим: после выхода сессия перечитает партицию с последнего коммита
		h.pause(sess.Context())
		return true
	}

	if processed {
		msgLog.Info("delivery.events: processed")
	} else {
		msgLog.Info("delivery.events: skipped")
	}

	sess.MarkMessage(message, "")
	return false
}

func (h *Handler) pause(ctx context.Context) {
	if h.redeliveryPause <= 0 {
		return
	}
	t := time.NewTimer(h.redeliveryPause)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// isPermanent сообщает, что событие отклонено по существу.
func isPermanent(err error) bool {
	return errors.Is(err, entities.ErrValidation) ||
		errors.Is(err, entities.ErrConflict) ||
		errors.Is(err, entities.ErrNotFound) ||
		errors.Is(err, entities.ErrInvalidTransition) ||
		errors.Is(err, entities.ErrAuthorization)
}

// ShouldRetry отделяет временные сбои от окончательных отказов. Событие,
// которое держит другой воркер, повторяется: следующая попытка увидит либо
// отметку об обработке, либо снятую блокировку.
func ShouldRetry(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, settlement.ErrRetriesExhausted),
		isPermanent(err):
		return false
	default:
		return true
	}
}
