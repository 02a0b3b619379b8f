package reconcile

// Operation names an engine entry point.
type Operation string

const (
	OpRender   Operation = "render"
	OpPatch    Operation = "patch"
	OpSetState Operation = "set_state"
	OpUnmount  Operation = "unmount"
)

// Observer is notified around every engine operation. Begin is called when
// the operation starts; the returned function is called with its result.
type Observer interface {
	Begin(op Operation, target string) func(err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op Operation, target string) func(err error)

// Begin implements Observer.
func (f ObserverFunc) Begin(op Operation, target string) func(err error) {
	return f(op, target)
}

type nopObserver struct{}

func (nopObserver) Begin(Operation, string) func(error) { return func(error) {} }

// Observers fans out to several observers.
func Observers(obs ...Observer) Observer {
	return ObserverFunc(func(op Operation, target string) func(error) {
		ends := make([]func(error), 0, len(obs))
		for _, o := range obs {
			if o != nil {
				ends = append(ends, o.Begin(op, target))
			}
		}
		return func(err error) {
			for i := len(ends) - 1; i >= 0; i-- {
				ends[i](err)
			}
		}
	})
}
