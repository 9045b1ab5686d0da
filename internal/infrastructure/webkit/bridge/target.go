package bridge

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveTarget turns a navigation target into the URI a window loads.
// Absolute URLs are used as they are; anything else is resolved against
// baseURL, so "/foo" becomes "<base>/foo".
func ResolveTarget(baseURL, target string) (string, error) {
	if target == "" {
		target = "/"
	}

	t, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse target %q: %w", target, err)
	}
	if t.IsAbs() {
		return t.String(), nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base url %q is not absolute", baseURL)
	}

	// Keep a path prefix on the base: "http://h/app" + "/x" -> "http://h/app/x".
	if prefix := strings.TrimSuffix(base.Path, "/"); prefix != "" && strings.HasPrefix(t.Path, "/") {
		t.Path = prefix + t.Path
	}
	return base.ResolveReference(t).String(), nil
}
