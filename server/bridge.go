package main

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"slether-navigator/navigator"
)

// NavSession is one /nav connection. An external host streams snapshot
// frames and gets a decision frame back for each; the session owns its own
// engine so hosts never share state.
type NavSession struct {
	ID     string
	ws     *websocket.Conn
	engine *navigator.Engine

	frames  int
	skipped int
}

// NewNavSession creates a session with a fresh engine
func NewNavSession(ws *websocket.Conn, opts navigator.Options) (*NavSession, error) {
	e, err := navigator.NewEngine(opts)
	if err != nil {
		return nil, err
	}
	return &NavSession{
		ID:     uuid.New().String(),
		ws:     ws,
		engine: e,
	}, nil
}

// decodeFrame reads a text frame as JSON and a binary frame as msgpack
func decodeFrame(msgType int, raw []byte) (SnapshotFrame, error) {
	var f SnapshotFrame
	switch msgType {
	case websocket.TextMessage:
		if err := json.Unmarshal(raw, &f); err != nil {
			return f, errors.Wrap(err, "decode json frame")
		}
	case websocket.BinaryMessage:
		if err := msgpack.Unmarshal(raw, &f); err != nil {
			return f, errors.Wrap(err, "decode msgpack frame")
		}
	default:
		return f, errors.Errorf("unsupported frame type %d", msgType)
	}
	return f, nil
}

// encodeFrame mirrors decodeFrame for replies
func encodeFrame(msgType int, v interface{}) ([]byte, error) {
	if msgType == websocket.BinaryMessage {
		data, err := msgpack.Marshal(v)
		return data, errors.Wrap(err, "encode msgpack frame")
	}
	data, err := json.Marshal(v)
	return data, errors.Wrap(err, "encode json frame")
}

// Handle runs one frame through the engine. It returns the reply to send,
// or nil when the frame needs none.
func (n *NavSession) Handle(f SnapshotFrame) interface{} {
	switch f.Type {
	case MsgReset:
		n.engine.Reset()
		return nil
	case MsgSnapshot, "":
	default:
		return ErrorMsg{Type: MsgError, Seq: f.Seq, Message: "unknown frame type " + f.Type}
	}

	n.frames++
	snap, err := f.toSnapshot()
	if err == nil {
		var d navigator.Decision
		if d, err = n.engine.Tick(snap); err == nil {
			return decisionFrame(f.Seq, d)
		}
	}
	n.skipped++
	log.Printf("nav %s: frame %d skipped: %v", n.ID, f.Seq, err)
	return ErrorMsg{Type: MsgError, Seq: f.Seq, Message: err.Error()}
}

// Serve reads frames until the host disconnects. Bad frames are answered
// with an error frame and the session carries on with the next one.
func (n *NavSession) Serve() {
	defer n.ws.Close()
	log.Printf("nav session opened: %s", n.ID)

	for {
		msgType, raw, err := n.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("nav read error for %s: %v", n.ID, err)
			}
			break
		}

		var reply interface{}
		if f, err := decodeFrame(msgType, raw); err != nil {
			log.Printf("nav %s: %v", n.ID, err)
			reply = ErrorMsg{Type: MsgError, Message: err.Error()}
		} else {
			reply = n.Handle(f)
		}
		if reply == nil {
			continue
		}

		if msgType != websocket.BinaryMessage {
			msgType = websocket.TextMessage
		}
		data, err := encodeFrame(msgType, reply)
		if err != nil {
			log.Printf("nav %s: %v", n.ID, err)
			continue
		}
		if err := n.ws.WriteMessage(msgType, data); err != nil {
			log.Printf("nav write error for %s: %v", n.ID, err)
			break
		}
	}
	log.Printf("nav session closed: %s (%d frames, %d skipped)", n.ID, n.frames, n.skipped)
}
