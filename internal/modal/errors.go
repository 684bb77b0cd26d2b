package modal

import "errors"

var (
	// ErrNoContent is returned by New when neither content nor a template
	// id is provided.
	ErrNoContent = errors.New("modal: one of content or template id is required")

	// ErrTemplateNotFound is returned by New when the template id does not
	// name a template element in the document.
	ErrTemplateNotFound = errors.New("modal: template not found")

	// ErrDestroyed is returned by Open on a destroyed dialog.
	ErrDestroyed = errors.New("modal: dialog destroyed")
)
