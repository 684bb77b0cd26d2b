// Package modal implements stacked modal dialogs on top of a dom.Document.
//
// A single Coordinator owns the ordered stack of open dialogs. It assigns
// z-index depths from stack position and engages the scroll lock while at
// least one dialog is open. Every Dialog is created against a Coordinator
// and funnels all stack mutation through it.
//
// # Quick Start
//
//	coord := modal.NewCoordinator(doc)
//	d, err := modal.New(coord,
//	    modal.WithContent("Are you sure?"),
//	    modal.WithFooter(true),
//	)
//	if err != nil {
//	    return err
//	}
//	d.AddFooterButton("Delete", "btn-danger", func(d *modal.Dialog) {
//	    deleteItem()
//	    d.Close()
//	})
//	d.Open()
//
// # Lifecycle
//
// A dialog builds its element tree on first Open and keeps it across
// Close/Open cycles unless it is destroyed. Close unregisters the dialog
// immediately and defers teardown until the backdrop's close transition
// completes. A destroyed dialog cannot be opened again.
//
// # Depths
//
// The dialog at stack index i gets backdrop depth base+2i and container
// depth base+2i+1.
package modal
