package port

import "context"

// ExportSink delivers a one-shot export artifact to the user through
// whatever save mechanism the host offers.
type ExportSink interface {
	Deliver(ctx context.Context, filename string, data []byte) error
}
