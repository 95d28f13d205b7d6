package cssbundle

// Notify pushes a change event for f when the build was triggered by a
// stylesheet edit. Rebuilds caused by other files (scripts, templates) would
// otherwise re-send every stylesheet to connected clients. It reports whether
// an event was emitted.
func (c *Context) Notify(f *File) bool {
	if c.emitter == nil || c.LastChanged == "" {
		return false
	}
	if !c.Allowed(c.LastChanged) {
		c.logger.Debug("change event skipped", "path", f.Path, "last_changed", c.LastChanged)
		return false
	}
	c.emitter.Emit(Event{
		Type:    "js",
		Content: f.Alternative,
		Path:    f.Path,
	})
	return true
}
