// Package ws serves the live frame stream, the control socket and health
// over HTTP.
package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-wavecanvas/internal/diagnostics"
	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
	"github.com/coreman2200/funtimes-wavecanvas/internal/render"
	"github.com/coreman2200/funtimes-wavecanvas/internal/sequence"
)

// Engine is the part of the render engine the hub controls.
type Engine interface {
	Apply(p pattern.Parameters) (pattern.Change, error)
	SetPreset(name string) error
	Parameters() pattern.Parameters
	Resize(w, h int) error
	Status() render.Status
}

// Sequencer is optional; seq commands fail without one.
type Sequencer interface {
	Start() error
	Stop()
	Pause()
	Resume()
	Status() sequence.Status
}

// ControlMsg is one request on the control socket. Params is merged over
// the active parameters, so partial objects are allowed.
type ControlMsg struct {
	Params json.RawMessage `json:"params,omitempty"`
	Preset string          `json:"preset,omitempty"`
	Seq    string          `json:"seq,omitempty"`
	Resize *CanvasSize     `json:"resize,omitempty"`
}

// CanvasSize is the payload of a resize request.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Reply answers every control message.
type Reply struct {
	OK     bool               `json:"ok"`
	Error  string             `json:"error,omitempty"`
	Fields []string           `json:"fields,omitempty"`
	Params pattern.Parameters `json:"params"`
	Status render.Status      `json:"status"`
	Seq    *sequence.Status   `json:"seq,omitempty"`
}

var ErrNoSequencer = errors.New("no sequencer loaded")

type Hub struct {
	eng Engine
	seq Sequencer
	fps int

	// interval between streamed frames; 0 streams every frame
	interval time.Duration

	mu          sync.Mutex
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	lastSent    time.Time
	sent        uint64
	closed      bool

	enc     png.Encoder
	buf     bytes.Buffer
	up      websocket.Upgrader
	started time.Time
}

// NewHub streams at most streamFPS frames per second. fps is the render
// rate, reported on /health.
func NewHub(eng Engine, seq Sequencer, fps, streamFPS int) *Hub {
	h := &Hub{
		eng:         eng,
		seq:         seq,
		fps:         fps,
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		enc:         png.Encoder{CompressionLevel: png.BestSpeed},
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		started:     time.Now(),
	}
	if streamFPS > 0 {
		h.interval = time.Second / time.Duration(streamFPS)
	}
	return h
}

// Routes registers the hub handlers on mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/frames", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
}

// Write streams img to frame clients as a PNG binary message, dropping
// frames that arrive faster than the stream rate.
func (h *Hub) Write(img *image.RGBA) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) == 0 {
		return nil
	}
	now := time.Now()
	if h.interval > 0 && now.Sub(h.lastSent) < h.interval {
		return nil
	}
	h.lastSent = now
	h.buf.Reset()
	if err := h.enc.Encode(&h.buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	h.sent++
	for c := range h.clients {
		c.SetWriteDeadline(now.Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.BinaryMessage, h.buf.Bytes()); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
	return nil
}

// Close drops every connected client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.Close()
	}
	for c := range h.diagClients {
		c.Close()
	}
	return nil
}

// Clients reports connected frame clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, h.diagClients)
}

// subscribe registers a write-only client and drains its reads until it
// goes away.
func (h *Hub) subscribe(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	set[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		b, err := json.Marshal(h.control(data))
		if err != nil {
			log.Error().Err(err).Msg("encode control reply")
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (h *Hub) control(data []byte) Reply {
	var msg ControlMsg
	err := json.Unmarshal(data, &msg)
	code := "CONTROL.BAD_MESSAGE"
	if err == nil {
		code, err = h.applyControl(msg)
	}

	reply := Reply{OK: err == nil, Params: h.eng.Parameters(), Status: h.eng.Status()}
	if h.seq != nil {
		st := h.seq.Status()
		reply.Seq = &st
	}
	if err != nil {
		d := diag.FromError(code, err)
		reply.Error = err.Error()
		reply.Fields = d.Fields
		log.Warn().Err(err).Str("code", code).Msg("control rejected")
		h.pushDiag(d)
	}
	return reply
}

// applyControl returns a diagnostic code alongside any error.
func (h *Hub) applyControl(msg ControlMsg) (string, error) {
	if msg.Resize != nil {
		if err := h.eng.Resize(msg.Resize.Width, msg.Resize.Height); err != nil {
			return "CANVAS.RESIZE", err
		}
		log.Info().Int("width", msg.Resize.Width).Int("height", msg.Resize.Height).Msg("canvas resized")
	}
	if msg.Preset != "" {
		if err := h.eng.SetPreset(msg.Preset); err != nil {
			return "PRESET.REJECTED", err
		}
		log.Info().Str("preset", msg.Preset).Msg("preset selected")
	}
	if len(msg.Params) > 0 {
		p := h.eng.Parameters()
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return "PARAM.DECODE", err
		}
		ch, err := h.eng.Apply(p)
		if err != nil {
			return "PARAM.INVALID", err
		}
		log.Debug().Int("change", int(ch)).Msg("params applied")
	}
	if msg.Seq != "" {
		if err := h.sequence(msg.Seq); err != nil {
			return "SEQ.REJECTED", err
		}
	}
	return "", nil
}

func (h *Hub) sequence(cmd string) error {
	if h.seq == nil {
		return ErrNoSequencer
	}
	switch cmd {
	case "start":
		return h.seq.Start()
	case "stop":
		h.seq.Stop()
	case "pause":
		h.seq.Pause()
	case "resume":
		h.seq.Resume()
	default:
		return fmt.Errorf("unknown seq command %q", cmd)
	}
	return nil
}

func (h *Hub) pushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		log.Error().Err(err).Str("code", d.Code).Msg("encode diagnostic")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// Health is the /health document.
type Health struct {
	render.Status
	FPS       int              `json:"fps"`
	Clients   int              `json:"clients"`
	Streamed  uint64           `json:"streamed"`
	HubUptime float64          `json:"hub_uptime_s"`
	Seq       *sequence.Status `json:"seq,omitempty"`
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := Health{Status: h.eng.Status(), FPS: h.fps}
	h.mu.Lock()
	resp.Clients = len(h.clients)
	resp.Streamed = h.sent
	h.mu.Unlock()
	resp.HubUptime = time.Since(h.started).Seconds()
	if h.seq != nil {
		st := h.seq.Status()
		resp.Seq = &st
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
