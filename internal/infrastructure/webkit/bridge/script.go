// Package bridge holds the cgo-free half of the window host: the page-side
// JavaScript, the Go-side listener table and window handle state.
package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GlobalName is the page global the user script installs.
const GlobalName = "__pipewin"

// userScript is injected at document start. emit(name) posts to the
// WebKit message handler registered under that name; listen(name, fn)
// subscribes fn to the CustomEvent the host dispatches.
const userScript = `(function() {
  if (window.%[1]s) return;
  var handlers = window.webkit && window.webkit.messageHandlers;
  window.%[1]s = {
    events: %[2]s,
    emit: function(name, detail) {
      if (!handlers || !handlers[name]) {
        console.warn('[pipewin] no host handler for event', name);
        return false;
      }
      handlers[name].postMessage(detail === undefined ? null : detail);
      return true;
    },
    listen: function(name, fn) {
      var wrapped = function(e) { fn(e.detail); };
      window.addEventListener(name, wrapped);
      return function() { window.removeEventListener(name, wrapped); };
    }
  };
})();`

// UserScript returns the document-start script announcing the host events
// the page may emit.
func UserScript(events ...string) string {
	list, err := json.Marshal(nonEmpty(events))
	if err != nil {
		list = []byte("[]")
	}
	return fmt.Sprintf(userScript, GlobalName, list)
}

// EmitScript returns the JavaScript that dispatches event with payload as
// the CustomEvent detail. Both strings are JSON-encoded, so any payload is safe.
func EmitScript(event, payload string) (string, error) {
	if strings.TrimSpace(event) == "" {
		return "", fmt.Errorf("event name cannot be empty")
	}
	name, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode event name: %w", err)
	}
	detail, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return fmt.Sprintf("window.dispatchEvent(new CustomEvent(%s, { detail: %s }));", name, detail), nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
