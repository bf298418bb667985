package feed_get

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
	"marketplace/internal/handlers/rest/converters"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
	"marketplace/internal/service/feed"
	"marketplace/pkg/logger"
)

// Kind выбирает, какую живую выборку отдает обработчик.
type Kind string

const (
	KindDelivery Kind = "delivery"
	KindPending  Kind = "pending"
	KindMine     Kind = "mine"
	KindWallet   Kind = "wallet"
)

const (
	eventSnapshot = "snapshot"
	eventError    = "error"

	DefaultHeartbeat = 15 * time.Second
)

type frame struct {
	event string
	data  any
}

type Handler struct {
	log       handlerLogger
	service   Service
	kind      Kind
	heartbeat time.Duration
}

func New(log handlerLogger, service Service, kind Kind, heartbeat time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("feed", string(kind)))

	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	return &Handler{
		log:       handlerLog,
		service:   service,
		kind:      kind,
		heartbeat: heartbeat,
	}
}

// ServeHTTP держит поток Server-Sent Events: первым событием идет текущий
// снимок, затем новый снимок после каждого изменения. Ошибка чтения
// снимка отправляется событием error и закрывает поток.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, h.log)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// буфер 1, старый неотправленный снимок вытесняется свежим
	frames := make(chan frame, 1)
	push := func(f frame) {
		select {
		case <-frames:
		default:
		}
		select {
		case frames <- f:
		default:
		}
	}
	onError := func(err error) {
		status, code := response.StatusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			h.log.With(logger.NewField("error", err)).Error("stream failed")
			message = http.StatusText(status)
		}
		push(frame{event: eventError, data: dto.Error{Error: code, Message: message}})
	}

	sub, err := h.subscribe(ctx, s, mux.Vars(r)["id"], push, onError)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	defer sub.Unsubscribe()

	rc := http.NewResponseController(w)
	// поток живет дольше WriteTimeout сервера
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.log.With(logger.NewField("error", err)).Warn("flush stream headers")
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case f := <-frames:
			if err := h.write(w, rc, f); err != nil {
				h.log.With(logger.NewField("error", err)).Warn("write stream event")
				return
			}
			if f.event == eventError {
				return
			}
		}
	}
}

func (h *Handler) subscribe(
	ctx context.Context,
	s entities.Session,
	deliveryID string,
	push func(frame),
	onError func(error),
) (*feed.Subscription, error) {
	snapshot := func(data any) {
		push(frame{event: eventSnapshot, data: data})
	}

	switch h.kind {
	case KindDelivery:
		return h.service.SubscribeDelivery(ctx, deliveryID, func(d *entities.Delivery) {
			snapshot(converters.DeliveryToDTO(d))
		}, onError)
	case KindPending:
		return h.service.SubscribePending(ctx, func(deliveries []entities.Delivery) {
			snapshot(converters.DeliveriesToDTO(deliveries))
		}, onError)
	case KindMine:
		return h.service.SubscribeParty(ctx, s.Party.Role(), s.UserID, func(deliveries []entities.Delivery) {
			snapshot(converters.DeliveriesToDTO(deliveries))
		}, onError)
	case KindWallet:
		return h.service.SubscribeWallet(ctx, s.UserID, func(ws feed.WalletSnapshot) {
			snapshot(converters.WalletSnapshotToDTO(ws))
		}, onError)
	default:
		return nil, fmt.Errorf("unknown feed kind %q", h.kind)
	}
}

func (h *Handler) write(w http.ResponseWriter, rc *http.ResponseController, f frame) error {
	data, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", f.event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.event, data); err != nil {
		return err
	}
	return rc.Flush()
}
