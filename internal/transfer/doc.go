// Package transfer tracks per-user download and upload progress and
// coordinates cooperative cancellation.
//
// A Registry maps a Telegram user id to at most one active Operation. A
// Tracker counts bytes for one Operation, throttles progress renders
// through a Sink, and checks the Registry's cancel flag before every
// update.
//
// # Usage
//
//	reg := transfer.NewRegistry()
//	t := transfer.NewDownload(userID, "file.zip", size, reg, sink)
//	if err := reg.Register(userID, transfer.KindDownload, t); err != nil {
//	    return err // transfer.ErrBusy
//	}
//
//	buf := make([]byte, 8192)
//	if _, err := transfer.Copy(ctx, file, body, t, buf); err != nil {
//	    if errors.Is(err, transfer.ErrCancelled) {
//	        return nil // the tracker already rendered the cancelled view
//	    }
//	    t.Fail(err)
//	    return err
//	}
//	t.Complete(ctx)
//
// # Cancellation
//
// Cancelling never interrupts I/O directly. A cancel click only flags the
// Operation (Registry.CancelBy). The next Tracker.Update sees the flag,
// moves the tracker to StateCancelled, removes the Operation and returns
// Abort. Copy and Tracker.Writer turn Abort into ErrCancelled so the
// surrounding loop stops after the current chunk.
//
// # Throttling
//
// Download trackers render at most every 2 seconds and upload trackers
// every second. A render is forced when the transfer reaches its total
// size, so the last progress view always shows 100%.
package transfer
