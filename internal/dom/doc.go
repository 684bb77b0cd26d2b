// Package dom is a small retained document model used as the platform
// surface for popzy dialogs. It provides elements with class lists, inline
// styles, markup, bubbling event listeners and transition-completion
// signals, plus the scheduler that drives deferred callbacks.
//
// A Document is not safe for concurrent use. All mutation is expected to
// happen on a single UI goroutine (the bubbletea Update loop in the
// terminal host, or the test goroutine driving a ManualClock).
package dom
