// Package server hosts the engine behind a websocket endpoint.
//
// A client sends [Msg] frames of type "run" (a case document as JSON),
// "preset", "validate" or "presets". A run is acknowledged with "accepted"
// and answered later with one "result" frame carrying the complete results,
// or an "error" frame. Nothing is streamed while a run is in progress.
package server
