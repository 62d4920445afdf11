package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/config"
	"github.com/san-kum/beltsim/internal/sim"
)

var errLibraryPath = errors.New("chemistry.library files are not accepted over the socket; inline materials instead")

// Hub serves one connection. Requests are dispatched off the read loop and
// runs execute in their own goroutines, bounded per connection. All writes
// go through a single writer goroutine.
type Hub struct {
	srv  *Server
	conn *websocket.Conn
	log  logrus.FieldLogger

	requests chan Msg
	replies  chan Msg
	sem      chan struct{}
	wg       sync.WaitGroup
}

func newHub(srv *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		srv:      srv,
		conn:     conn,
		log:      srv.log.WithField("remote", conn.RemoteAddr().String()),
		requests: make(chan Msg, 16),
		replies:  make(chan Msg, 16),
		sem:      make(chan struct{}, srv.concurrency),
	}
}

// serve blocks until the peer disconnects. Runs still in flight when it does
// are allowed to finish and their replies are dropped.
func (h *Hub) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.handleResponses(ctx)
	}()
	go h.handleRequests(ctx)

	for {
		var msg Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("read failed")
			}
			break
		}
		select {
		case h.requests <- msg:
		case <-ctx.Done():
		}
	}

	cancel()
	h.wg.Wait()
	<-done
}

func (h *Hub) handleResponses(ctx context.Context) {
	for {
		select {
		case m := <-h.replies:
			if err := h.conn.WriteJSON(&m); err != nil {
				h.log.WithError(err).Warn("write failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) send(ctx context.Context, m Msg) {
	select {
	case h.replies <- m:
	case <-ctx.Done():
	}
}

func (h *Hub) handleRequests(ctx context.Context) {
	for {
		select {
		case msg := <-h.requests:
			if msg.ID == "" {
				msg.ID = uuid.NewString()
			}
			h.dispatch(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, msg Msg) {
	log := h.log.WithFields(logrus.Fields{"type": msg.Type, "id": msg.ID})
	log.Debug("request")

	switch msg.Type {
	case TypePresets:
		h.send(ctx, reply(TypePresetIDs, msg.ID, config.ListPresets()))

	case TypeValidate:
		c, err := decodeCase(msg.Content)
		if err != nil {
			h.send(ctx, reply(TypeError, msg.ID, newErrorReply(err)))
			return
		}
		ws, err := h.srv.validate(c)
		if err != nil {
			h.send(ctx, reply(TypeError, msg.ID, newErrorReply(err)))
			return
		}
		h.send(ctx, reply(TypeValidated, msg.ID, ValidateReply{Warnings: ws.Strings()}))

	case TypeRun, TypePreset:
		c, err := h.caseFor(msg)
		if err != nil {
			h.send(ctx, reply(TypeError, msg.ID, newErrorReply(err)))
			return
		}
		h.send(ctx, reply(TypeAccepted, msg.ID, nil))
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			select {
			case h.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-h.sem }()
			h.send(ctx, h.run(msg.ID, c, log))
		}()

	default:
		log.Warn("unknown request type")
		h.send(ctx, reply(TypeError, msg.ID, ErrorReply{Message: fmt.Sprintf("unknown request type %q", msg.Type)}))
	}
}

func (h *Hub) caseFor(msg Msg) (*config.Case, error) {
	if msg.Type == TypeRun {
		return decodeCase(msg.Content)
	}
	var req PresetRequest
	if err := json.Unmarshal(msg.Content, &req); err != nil {
		return nil, fmt.Errorf("parsing preset request: %w", err)
	}
	c := config.GetPreset(req.Name)
	if c == nil {
		return nil, fmt.Errorf("unknown preset %q", req.Name)
	}
	return c, nil
}

func (h *Hub) run(id string, c *config.Case, log logrus.FieldLogger) Msg {
	res, err := h.srv.run(c)
	if err != nil {
		log.WithError(err).Info("run rejected")
		return reply(TypeError, id, newErrorReply(err))
	}

	out := RunReply{Results: res}
	if h.srv.store != nil {
		out.RunID, err = h.srv.store.Save(c.Name, res)
		if err != nil {
			log.WithError(err).Error("saving run")
			return reply(TypeError, id, newErrorReply(err))
		}
	}
	log.WithField("rows", len(res.Flow)).Info("run complete")
	return reply(TypeResult, id, out)
}

func decodeCase(content json.RawMessage) (*config.Case, error) {
	if len(content) == 0 {
		return nil, errors.New("missing case document")
	}
	c, err := config.Parse(content, true)
	if err != nil {
		return nil, err
	}
	if c.Chemistry.Library != "" {
		return nil, errLibraryPath
	}
	return c, nil
}

// engineOptions keeps the server's limits; clients may only pick the
// basicity target.
func (s *Server) engineOptions(c *config.Case) []sim.Option {
	opts := []sim.Option{sim.WithLogger(s.log), sim.WithLimits(s.limits)}
	if c.Chemistry.BasicityTarget > 0 {
		opts = append(opts, sim.WithBasicityTarget(c.Chemistry.BasicityTarget))
	}
	return opts
}

func (s *Server) validate(c *config.Case) (sim.Warnings, error) {
	p, err := c.Parameters()
	if err != nil {
		return nil, err
	}
	return sim.New(s.engineOptions(c)...).Validate(p)
}

func (s *Server) run(c *config.Case) (*sim.Results, error) {
	p, err := c.Parameters()
	if err != nil {
		return nil, err
	}
	return sim.New(s.engineOptions(c)...).Run(p)
}
