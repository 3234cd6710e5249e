package object

import (
	"context"
	"fmt"
	"sync"

	"github.com/oakline-labs/playwright-go/telemetry"
)

// Registry maps guid -> Object, maintains parent/child ownership, routes
// events to per-object subscribers, and performs cascading disposal. Only
// the Connection driver task calls Create/Dispose/Dispatch;
// Lookup may be called concurrently by user-facing façade code, hence the
// RWMutex.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]*Object
	sender  Sender

	// OnDispose, when set, is invoked for every guid removed by a
	// cascading Dispose, from leaves to the disposed root, so the RPC
	// Engine can fail outstanding waiters on those objects with
	// ObjectDisposed.
	OnDispose func(guid string)

	logger  telemetry.Logger
	metrics telemetry.Metrics
}

// New constructs an empty Registry. sender is injected into every created
// Object so its Send method can issue RPCs.
func New(sender Sender, logger telemetry.Logger, metrics telemetry.Metrics) *Registry {
	if logger == nil {
		logger = telemetry.Noop{}
	}
	if metrics == nil {
		metrics = telemetry.Noop{}
	}
	return &Registry{
		objects: make(map[string]*Object),
		sender:  sender,
		logger:  logger,
		metrics: metrics,
	}
}

// ErrGUIDExists is returned by Create when guid is already registered.
type ErrGUIDExists struct{ GUID string }

func (e *ErrGUIDExists) Error() string { return fmt.Sprintf("object registry: guid %q already exists", e.GUID) }

// ErrParentMissing is returned by Create when parentGUID is not present in
// the registry. The driver guarantees Create messages for a child arrive
// after the parent's; this surfaces a genuine protocol violation.
type ErrParentMissing struct{ ParentGUID, GUID string }

func (e *ErrParentMissing) Error() string {
	return fmt.Sprintf("object registry: parent %q missing for new object %q", e.ParentGUID, e.GUID)
}

// Create constructs and registers a new Object of typ, under parentGUID,
// identified by guid. Only the very first object registered (the root) may
// pass an empty parentGUID, and it then has no parent; any non-empty
// parentGUID must already be registered.
func (r *Registry) Create(parentGUID string, typ Type, guid string, initializer []byte) (*Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[guid]; exists {
		return nil, &ErrGUIDExists{GUID: guid}
	}

	var parent *Object
	if len(r.objects) > 0 || parentGUID != "" {
		p, ok := r.objects[parentGUID]
		if !ok {
			return nil, &ErrParentMissing{ParentGUID: parentGUID, GUID: guid}
		}
		parent = p
	}

	obj := newObject(guid, typ, initializer, parent, r.sender)
	r.objects[guid] = obj
	if parent != nil {
		parent.addChild(obj)
	}

	r.logger.Debug(context.Background(), "object created", "guid", guid, "type", string(typ), "parent", parentGUID)
	r.metrics.IncCounter("playwright.registry.objects_created", 1, "type", string(typ))
	r.metrics.RecordGauge("playwright.registry.live_objects", float64(len(r.objects)))
	return obj, nil
}

// Lookup returns the live object for guid, or nil if it does not exist
// (never existed, or was disposed). O(1).
func (r *Registry) Lookup(guid string) *Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.objects[guid]
}

// Len reports the number of currently-live objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Dispose removes guid and every transitive descendant from the registry,
// depth-first from the leaves up. The whole subtree is first removed from
// the map; then, leaves first, each object has its subscribers cleared, is
// marked disposed, is unlinked from its parent, and has OnDispose invoked.
// Disposing an already-absent guid is a no-op.
func (r *Registry) Dispose(guid string) {
	r.mu.Lock()
	root, ok := r.objects[guid]
	if !ok {
		r.mu.Unlock()
		return
	}
	order := postOrder(root)
	for _, obj := range order {
		delete(r.objects, obj.guid)
	}
	r.mu.Unlock()

	for _, obj := range order {
		obj.clearSubscribers()
		obj.markDisposed()
		if obj.parent != nil {
			obj.parent.removeChild(obj.guid)
		}
		if r.OnDispose != nil {
			r.OnDispose(obj.guid)
		}
		r.logger.Debug(context.Background(), "object disposed", "guid", obj.guid, "type", string(obj.typ))
	}
	r.metrics.IncCounter("playwright.registry.objects_disposed", float64(len(order)))
	r.mu.RLock()
	live := len(r.objects)
	r.mu.RUnlock()
	r.metrics.RecordGauge("playwright.registry.live_objects", float64(live))
}

// postOrder returns root and all of its transitive descendants in
// depth-first, leaves-first order, suitable for cascading disposal.
func postOrder(root *Object) []*Object {
	var out []*Object
	var walk func(o *Object)
	walk = func(o *Object) {
		for _, c := range o.Children() {
			walk(c)
		}
		out = append(out, o)
	}
	walk(root)
	return out
}

// DispatchEvent looks up guid and invokes every subscriber registered for
// method, in registration order. A panic inside a subscriber is logged and
// does not abort dispatch to the remaining subscribers.
// DispatchEvent is a no-op if guid is unknown (e.g. a stray event racing a
// dispose).
func (r *Registry) DispatchEvent(guid, method string, params []byte) {
	obj := r.Lookup(guid)
	if obj == nil {
		return
	}
	obj.dispatch(method, params, func(recovered any) {
		r.logger.Error(context.Background(), "event subscriber panicked",
			"guid", guid, "method", method, "recovered", fmt.Sprint(recovered))
	})
}
