// Package urls holds links to the FHEM documentation hmpanel refers users to.
package urls
