package config

// Cached returns the Settings currently cached by the Loader, if any.
func (l *Loader) Cached() *Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}
