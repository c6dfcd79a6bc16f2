package engine

// workerLoop is run by each pool goroutine. It mirrors the worker-loop
// protocol in the design's component design exactly:
//
//  1. Sleep on condStart until the queue is non-empty or shutdown begins.
//  2. Contest the head context by atomically claiming items until none
//     remain claimable.
//  3. Whichever worker's doneCount increment produces the item count is
//     the finisher: it dequeues the (now complete) context and, if
//     another context is now at the head, contests that one immediately
//     without going back to sleep.
func (e *Engine) workerLoop() {
	defer e.workers.Done()
	for {
		ctx, shutdown := e.controller.waitStart()
		if shutdown {
			return
		}
		for ctx != nil {
			ctx = e.processContext(ctx)
		}
	}
}

// processContext contests ctx's items until claimNext reports none are
// left to claim. If this goroutine's own completion increment is the one
// that brings doneCount to count, it is the finisher: it dequeues ctx and
// returns the controller's new head (nil if the queue is now empty) so
// the caller can stay eligible rather than re-sleeping.
func (e *Engine) processContext(ctx *workContext) *workContext {
	for {
		idx, ok := ctx.claimNext()
		if !ok {
			return nil
		}
		ctx.items[idx].run()
		if ctx.doneCount.Add(1) == ctx.count {
			e.controller.dequeueHead()
			return e.controller.headContext()
		}
	}
}
