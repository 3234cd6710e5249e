package object

import (
	"context"
	"encoding/json"
	"sync"
)

// Sender issues an RPC request scoped to a guid and waits for its response.
// The RPC Engine implements this; Object depends only on the interface to
// avoid a import cycle between object and rpc.
type Sender interface {
	Send(ctx context.Context, guid, method string, params json.RawMessage) (json.RawMessage, error)
}

// Subscriber is a callback registered for one event method on an Object.
// Subscribers are invoked in registration order; a panic inside
// a subscriber is recovered and logged by the caller of Dispatch, never
// aborting the remaining subscribers.
type Subscriber func(params json.RawMessage)

// Subscription cancels a previously registered Subscriber. Cancelling
// twice, or cancelling after the Object is disposed, is a safe no-op.
type Subscription interface {
	Cancel()
}

// Object is the common per-object state shared by every remote object
// variant: its guid, type tag, initializer payload, parent link, child
// set, and event subscribers. Variant is an unused slot for
// type-specific data.
type Object struct {
	mu sync.RWMutex

	guid        string
	typ         Type
	initializer json.RawMessage
	parent      *Object
	children    map[string]*Object
	subs        map[string][]*subscription
	subSeq      uint64
	disposed    bool

	sender Sender

	// Variant is a slot for type-specific state. The Registry does not set
	// it, so it is nil for every Object that Create returns, and nothing in
	// this module reads it.
	Variant any
}

type subscription struct {
	id     uint64
	method string
	cb     Subscriber
	owner  *Object
	once   sync.Once
}

func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.owner.mu.Lock()
		defer s.owner.mu.Unlock()
		list := s.owner.subs[s.method]
		for i, sub := range list {
			if sub == s {
				s.owner.subs[s.method] = append(list[:i], list[i+1:]...)
				break
			}
		}
	})
}

// newObject constructs an Object. Only the registry may call this, since
// registration under a guid and parent/child linking must happen
// atomically with construction.
func newObject(guid string, typ Type, initializer json.RawMessage, parent *Object, sender Sender) *Object {
	return &Object{
		guid:        guid,
		typ:         typ,
		initializer: initializer,
		parent:      parent,
		children:    make(map[string]*Object),
		subs:        make(map[string][]*subscription),
		sender:      sender,
	}
}

// GUID returns the object's immutable identity.
func (o *Object) GUID() string { return o.guid }

// Type returns the object's closed-enumeration type tag.
func (o *Object) Type() Type { return o.typ }

// Initializer returns the opaque payload supplied at creation time.
func (o *Object) Initializer() json.RawMessage { return o.initializer }

// Parent returns the owning Object, or nil for the root.
func (o *Object) Parent() *Object { return o.parent }

// Children returns a snapshot slice of the object's current children.
func (o *Object) Children() []*Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*Object, 0, len(o.children))
	for _, c := range o.children {
		out = append(out, c)
	}
	return out
}

// Disposed reports whether this object has been removed from the registry.
func (o *Object) Disposed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.disposed
}

// Send issues method with params scoped to this object's guid via the
// injected Sender (the RPC Engine) and returns the decoded result.
func (o *Object) Send(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	return o.sender.Send(ctx, o.guid, method, params)
}

// On registers cb for events named method on this object. Subscribers fire
// in registration order. The returned Subscription can be
// cancelled at any time, including from within the callback itself.
func (o *Object) On(method string, cb Subscriber) Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subSeq++
	sub := &subscription{id: o.subSeq, method: method, cb: cb, owner: o}
	o.subs[method] = append(o.subs[method], sub)
	return sub
}

// dispatch invokes every subscriber registered for method, in registration
// order. A panic in a subscriber is recovered so it cannot abort dispatch
// to the remaining subscribers; the caller is expected to log it.
func (o *Object) dispatch(method string, params json.RawMessage, onPanic func(recovered any)) {
	o.mu.RLock()
	subs := append([]*subscription(nil), o.subs[method]...)
	o.mu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil && onPanic != nil {
					onPanic(r)
				}
			}()
			sub.cb(params)
		}()
	}
}

// clearSubscribers clears every subscriber list, used when the object is
// disposed.
func (o *Object) clearSubscribers() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = make(map[string][]*subscription)
}

func (o *Object) addChild(c *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.children[c.guid] = c
}

func (o *Object) removeChild(guid string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.children, guid)
}

func (o *Object) markDisposed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.disposed = true
}
