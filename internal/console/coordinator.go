// Package console is the interactive spy cat console. The Coordinator owns
// the two pieces of mutable UI state, the cat snapshot and the modal form,
// and changes them only through its transition methods. Model wraps it in a
// bubbletea program.
//
// # Thread Safety
//
// Everything here runs on the bubbletea event loop. Network calls happen in
// tea.Cmd functions that only capture immutable values and report back
// through messages; they never touch Coordinator state.
package console

import (
	"log/slog"

	"github.com/4oBuko/spy-cat-console/internal/catlist"
	"github.com/4oBuko/spy-cat-console/internal/form"
	"github.com/4oBuko/spy-cat-console/internal/models"
)

type Modal int

const (
	ModalClosed Modal = iota
	ModalCreate
	ModalEdit
)

func (m Modal) String() string {
	switch m {
	case ModalCreate:
		return "open-for-create"
	case ModalEdit:
		return "open-for-edit"
	default:
		return "closed"
	}
}

type Coordinator struct {
	modal Modal
	form  *form.Controller
	list  *catlist.List

	logger *slog.Logger
}

func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		list:   catlist.New(logger),
		logger: logger,
	}
}

func (c *Coordinator) Modal() Modal {
	return c.modal
}

func (c *Coordinator) List() *catlist.List {
	return c.list
}

// Form returns the open form session, or nil while the modal is closed.
func (c *Coordinator) Form() *form.Controller {
	return c.form
}

// OpenCreate opens an empty form. It refuses while a form is already open.
func (c *Coordinator) OpenCreate() (*form.Controller, bool) {
	if c.modal != ModalClosed {
		return nil, false
	}
	c.modal = ModalCreate
	c.form = form.New(nil, c.logger)
	return c.form, true
}

// OpenEdit opens a form seeded with cat. It refuses while a form is already
// open.
func (c *Coordinator) OpenEdit(cat models.Cat) (*form.Controller, bool) {
	if c.modal != ModalClosed {
		return nil, false
	}
	c.modal = ModalEdit
	c.form = form.New(&cat, c.logger)
	return c.form, true
}

// Close drops the form session and everything typed into it.
func (c *Coordinator) Close() {
	c.modal = ModalClosed
	c.form = nil
}

// Succeeded closes the modal after the open form's submission was accepted.
// It reports whether the snapshot must be refetched.
func (c *Coordinator) Succeeded(f *form.Controller) bool {
	if f == nil || f.State() != form.StateSuccess {
		return false
	}
	if f == c.form {
		c.Close()
	}
	return true
}
