// Package errors provides structured error types for the shared-ptr library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes context: the control-block ID, the
// payload's Go type name, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseNew, errors.KindAllocation).
//		PayloadType("*db.Conn").
//		Handle(id).
//		Detail("tracker refused registration").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ExpiredWeak(id)
//	err := errors.Capacity(1024)
//
// All errors implement the standard error interface and support errors.Is/As;
// Is matches on Phase and Kind.
package errors
