package vdom

// Component is a stateful component's renderable body.
type Component interface {
	Render() *VNode
}

// FuncComponent is a stateless component: props in, tree out.
type FuncComponent func(props Props) *VNode

// ComponentType identifies a class component. Two elements refer to the
// same component type when they hold the same *ComponentType.
type ComponentType struct {
	// Name is used in logs and tree paths.
	Name string

	// New constructs the component body for a fresh instance.
	New func(self Instance) Component
}

// Define declares a component type.
func Define(name string, newFn func(self Instance) Component) *ComponentType {
	return &ComponentType{Name: name, New: newFn}
}

// Instance is the handle a component uses to read its inputs and request
// updates. It is implemented by the reconciler.
type Instance interface {
	// Props returns the current props.
	Props() Props

	// State returns the current state.
	State() any

	// SetState merges next into the state and re-renders synchronously.
	// Mapping states are shallow-merged; anything else replaces the state.
	SetState(next any) error

	// Type returns the instance's component type.
	Type() *ComponentType
}

// Lifecycle callbacks. Each is optional; a component implements only the
// ones it needs. A returned error aborts the triggering render, patch, or
// SetState and reaches its caller unchanged.

// StateInitializer supplies the state an instance starts with.
type StateInitializer interface {
	InitialState() any
}

// WillMountHook runs before the instance's first render.
type WillMountHook interface {
	WillMount() error
}

// DidMountHook runs once the instance's host subtree is attached.
type DidMountHook interface {
	DidMount() error
}

// WillUnmountHook runs before the instance's host subtree is removed.
type WillUnmountHook interface {
	WillUnmount() error
}

// WillReceivePropsHook runs before new props from a parent re-render are assigned.
type WillReceivePropsHook interface {
	WillReceiveProps(next Props) error
}

// ShouldUpdateHook gates SetState. Returning false skips the update.
type ShouldUpdateHook interface {
	ShouldUpdate() bool
}

// WillUpdateHook runs before a SetState merge.
type WillUpdateHook interface {
	WillUpdate(nextState any) error
}

// DidUpdateHook runs after a SetState patch completes.
type DidUpdateHook interface {
	DidUpdate(prevState any) error
}
