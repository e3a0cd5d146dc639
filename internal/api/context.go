package api

import (
	"context"
	"net/http"
)

type visitorSlotKey struct{}

// withVisitorSlot gives the request room for the visitor id, which is only
// known once the handler has read the session cookie.
func withVisitorSlot(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), visitorSlotKey{}, new(string)))
}

func setVisitor(r *http.Request, id string) {
	if slot, ok := r.Context().Value(visitorSlotKey{}).(*string); ok {
		*slot = id
	}
}

func visitorOf(r *http.Request) string {
	if slot, ok := r.Context().Value(visitorSlotKey{}).(*string); ok {
		return *slot
	}
	return ""
}
