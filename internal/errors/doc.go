// Package errors provides structured, coded errors for recon.
//
// Every failure the reconciler reports carries a stable code, a category
// and a short message, plus optional detail, a hint, and the tree path
// at which the failure was detected.
//
// # Error Categories
//
//   - reconcile: invalid virtual nodes, key collisions, lifecycle failures
//   - host: failures reported by the host mutation adapter
//   - config: recon.json loading and validation
//   - snapshot: snapshot export failures
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("R001").
//	    WithPath("div/ul[2]").
//	    WithDetail("element has no tag")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Invalid virtual node
//	//
//	//   at div/ul[2]
//	//
//	//   element has no tag
//
// Errors compare by code with errors.Is, so callers can match a sentinel
// created with New against any error carrying the same code.
package errors
