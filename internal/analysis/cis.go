package analysis

// suspensionsPerSegment is the number of self-suspensions a request makes per
// critical section.
const suspensionsPerSegment = 1

// requestCIS bounds the concurrency-induced serialization of request k of
// task i: while the request holds fraction F, each higher-priority task on
// the same core can slot its largest CPU intervention that fits in the
// remaining 1-F of accelerator capacity ahead of the requester's dispatch.
func (c *Context) requestCIS(i, k int) float64 {
	t := &c.tasks[i]
	if t.G(k) == 0 {
		return 0
	}

	blocking := 0.0
	core := t.Core()
	frac := t.F(k)
	for j := 0; j < i; j++ {
		if c.tasks[j].Core() != core {
			continue
		}
		blocking += c.tasks[j].MaxGmLeqFraction(1 - frac)
	}
	return float64(suspensionsPerSegment+1) * blocking
}

// requestIndirectBlocking is the per-request blocking due to other
// accelerator resources. A single accelerator means no indirect blocking;
// the hook stays so a multi-accelerator model has a seam.
func (c *Context) requestIndirectBlocking(i, k int) float64 {
	return 0
}

// requestResponseTime is the worst-case response time of one segment:
// own execution plus indirect blocking plus CIS.
func (c *Context) requestResponseTime(i, k int) float64 {
	if c.tasks[i].G(k) == 0 {
		return 0
	}
	return c.tasks[i].G(k) + c.requestIndirectBlocking(i, k) + c.requestCIS(i, k)
}
