package reconcile

import (
	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/vdom"
)

// Errors returned by the engine match these with errors.Is. Errors from
// lifecycle callbacks are returned unchanged and match none of them.
var (
	ErrInvalidVirtualNode = vdom.ErrInvalidVirtualNode
	ErrKeyCollision       error = errors.New("R003")
	ErrHostMutation       error = errors.New("R004")
	ErrDetached           error = errors.New("R005")
)

func invalidNode(path, detail string) error {
	return errors.New("R001").WithPath(path).WithDetail(detail)
}

func hostFailure(path, op string, err error) error {
	return errors.New("R004").WithPath(path).WithDetail(op).Wrap(err)
}

func keyCollision(path, key string) error {
	return errors.New("R003").
		WithPath(path).
		WithDetail("key " + key + " is used by more than one child").
		WithSuggestion("Give every sibling a distinct key prop")
}

func detached(path string) error {
	return errors.New("R005").WithPath(path)
}
