package server

import (
	"encoding/json"
	"errors"

	"github.com/san-kum/beltsim/internal/sim"
)

// Msg is the envelope for every frame in both directions. ID is chosen by
// the client and echoed on every reply to that request; the server assigns
// one when it is empty.
type Msg struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Request types.
const (
	TypeRun      = "run"      // content: a case document
	TypePreset   = "preset"   // content: PresetRequest
	TypeValidate = "validate" // content: a case document
	TypePresets  = "presets"  // no content
)

// Reply types.
const (
	TypeAccepted  = "accepted"
	TypeResult    = "result"
	TypeValidated = "validated"
	TypePresetIDs = "preset_list"
	TypeError     = "error"
)

type PresetRequest struct {
	Name string `json:"name"`
}

// RunReply carries the complete results of one run. RunID is set when the
// server persists runs.
type RunReply struct {
	RunID   string       `json:"run_id,omitempty"`
	Results *sim.Results `json:"results"`
}

type ValidateReply struct {
	Warnings []string `json:"warnings"`
}

type ErrorReply struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Source  *int   `json:"source,omitempty"`
}

func newErrorReply(err error) ErrorReply {
	r := ErrorReply{Message: err.Error()}
	var ve *sim.ValidationError
	if errors.As(err, &ve) {
		r.Field = ve.Field
		if ve.Source >= 0 {
			src := ve.Source
			r.Source = &src
		}
	}
	return r
}

func reply(typ, id string, v any) Msg {
	m := Msg{Type: typ, ID: id}
	if v == nil {
		return m
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(ErrorReply{Message: err.Error()})
		m.Type = TypeError
	}
	m.Content = data
	return m
}
