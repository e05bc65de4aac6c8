package strknn

// Close marks the engine closed and drops cached results.
//
// Upload and query operations on a closed engine return ErrClosed; Size,
// Entries and Stats keep reporting the final corpus. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.cache.Purge()
	e.logger.Debug("engine closed", "size", e.store.Size())
	return nil
}
