package relay

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// Router forwards messages to their addressed recipient's live
// connection. It keeps no state of its own: reachability is decided
// solely by the registry, so presence and delivery share one source of
// truth — a user is reachable exactly when it holds a registration.
type Router struct {
	registry *Registry
	validate *validator.Validate
}

// NewRouter wires a router to the registry it resolves recipients from.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		validate: validator.New(),
	}
}

// Route delivers msg to the current holder of msg.To's registration, or
// drops it if there is none. Malformed messages (missing to or text) are
// logged and dropped before any registry access. The sender never hears
// back either way.
func (rt *Router) Route(msg models.Message) {
	if err := rt.validate.Struct(msg); err != nil {
		log.Printf("router: dropping malformed message: %v", err)
		return
	}

	client, ok := rt.registry.Lookup(msg.To)
	if !ok {
		// Recipient offline: a defined no-op, not an error.
		return
	}

	data, err := MarshalEvent(EventNewMessage, msg)
	if err != nil {
		log.Printf("router: failed to marshal message: %v", err)
		return
	}

	if !client.deliver(data) {
		log.Printf("router: skipped delivery to %s", msg.To)
	}
}
