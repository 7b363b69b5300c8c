package cli

// SetSlogTo is SetSlog writing to the given writer.
var SetSlogTo = setSlog
