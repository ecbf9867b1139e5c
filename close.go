package geoclass

// Close releases the worker pool. It is safe to call more than once.
func (c *Classifier) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.pool.Close()
	})
	return nil
}
