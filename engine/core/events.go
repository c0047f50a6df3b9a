package core

import "sync"

// EventContext carries the payload of a fired event.
type EventContext struct {
	// Path of the design file involved, if any.
	Path string
	// Tree node the event refers to, if any.
	NodeID int
	// Free-form detail, e.g. the edited property name.
	Detail string
	// Count is event specific (rebuilt nodes, saved bytes, ...).
	Count int
	Err   error
}

// System internal event codes. Applications should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next tick.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A design was loaded from a file or the clipboard.
	/* Context usage:
	 * Path = source path ("" for clipboard)
	 */
	EVENT_CODE_DESIGN_LOADED SystemEventCode = 0x02

	// The tree view and property panels were rebuilt.
	/* Context usage:
	 * Count = number of tree nodes
	 */
	EVENT_CODE_DESIGN_REBUILT SystemEventCode = 0x03

	// A rebuild or update failed and the previous design was kept.
	/* Context usage:
	 * Err = failure
	 */
	EVENT_CODE_DESIGN_FAILED SystemEventCode = 0x04

	// A property row was edited.
	/* Context usage:
	 * NodeID = tree node, Detail = row label
	 */
	EVENT_CODE_PROPERTY_EDITED SystemEventCode = 0x05

	// The design was written to disk.
	/* Context usage:
	 * Path = target path, Count = bytes written
	 */
	EVENT_CODE_DESIGN_SAVED SystemEventCode = 0x06

	// The watched design file changed on disk.
	/* Context usage:
	 * Path = changed file
	 */
	EVENT_CODE_DESIGN_FILE_CHANGED SystemEventCode = 0x07

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

type eventSystemState struct {
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

func EventInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	isInitialized = true
	return true
}

func EventShutdown() error {
	if eventState == nil {
		return nil
	}
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		eventState.registered[i].events = nil
	}
	isInitialized = false
	return nil
}

// EventRegister subscribes listener to code. A listener can be registered only
// once per code; a duplicate registration returns false.
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized || onEvent == nil {
		return false
	}
	entry := &eventState.registered[code]
	for _, e := range entry.events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	entry.events = append(entry.events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// EventUnregister removes listener from code. Returns false when it was not
// registered.
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if !isInitialized {
		return false
	}
	entry := &eventState.registered[code]
	for i, e := range entry.events {
		if e.listener == listener {
			entry.events = append(entry.events[:i], entry.events[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire delivers data to the listeners of code in registration order. If a
// handler returns true the event is considered handled and is not passed on.
func EventFire(code SystemEventCode, sender interface{}, data EventContext) bool {
	if !isInitialized {
		return false
	}
	events := eventState.registered[code].events
	for _, e := range events {
		if e.callback(code, sender, e.listener, data) {
			return true
		}
	}
	return false
}
