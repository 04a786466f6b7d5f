package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

// ExamHandler runs one exam session per WebSocket connection.
type ExamHandler struct {
	exams    *app.ExamService
	upgrader websocket.Upgrader
}

func NewExamHandler(exams *app.ExamService) *ExamHandler {
	return &ExamHandler{
		exams: exams,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type timeUpPayload struct {
	Message string          `json:"message"`
	View    domain.ExamView `json:"view"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into a fresh exam session.
// Opening a second connection for the same student replaces the first session.
func (h *ExamHandler) ServeWS(c echo.Context) error {
	userID := principalOf(c).UserID

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	session := h.exams.Open(userID)
	defer h.exams.Release(session)
	events, cancelEvents := session.Subscribe()
	defer cancelEvents()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var ops sync.WaitGroup

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		case <-closeSignals:
		}
	}
	fail := func(err error) {
		log.Printf("exam %s: %v", userID, err)
		emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					// another connection took over this student's session
					fail(domain.ErrSessionClosed)
					return
				}
				emit(eventMessage(event))
			case <-closeSignals:
				return
			}
		}
	}()

	// start and confirm wait on repositories; they run off the read loop so
	// intents arriving meanwhile get ErrSessionBusy instead of queueing
	async := func(op func() error) {
		ops.Add(1)
		go func() {
			defer ops.Done()
			if err := op(); err != nil {
				fail(err)
			}
		}()
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			async(func() error { return session.Start(ctx) })
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}})
				continue
			}
			if err := session.SelectOption(payload.Option); err != nil {
				fail(err)
			}
		case "next":
			if err := session.Next(); err != nil {
				fail(err)
			}
		case "previous":
			if err := session.Previous(); err != nil {
				fail(err)
			}
		case "submit":
			if err := session.RequestSubmit(); err != nil {
				fail(err)
			}
		case "cancel":
			if err := session.CancelSubmit(); err != nil {
				fail(err)
			}
		case "confirm":
			async(func() error {
				result, err := session.ConfirmSubmit(ctx)
				if err != nil {
					return err
				}
				emit(outboundMessage[any]{Type: "result", Payload: result})
				return nil
			})
		default:
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	cancel()
	close(closeSignals)
	ops.Wait()
	<-updatesDone
	close(send)
	<-writerDone
	return nil
}

func eventMessage(event domain.ExamEvent) outboundMessage[any] {
	switch event.Type {
	case domain.ExamEventTimeUp:
		return outboundMessage[any]{Type: "timeUp", Payload: timeUpPayload{Message: event.Notice, View: event.View}}
	case domain.ExamEventTick:
		return outboundMessage[any]{Type: "tick", Payload: event.View}
	}
	return outboundMessage[any]{Type: "state", Payload: event.View}
}

