// Package form drives the add/edit cat form: it holds the raw input, freezes
// the fields the edit policy does not allow, validates locally and turns a
// valid form into exactly one create or update request.
//
// A Controller is not safe for concurrent use. Callers that run the network
// part elsewhere (a bubbletea command) take a Submission from Prepare, send it
// off-thread and hand the outcome back through Resolve.
package form

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/myerrors"
	"github.com/4oBuko/spy-cat-console/internal/policy"
)

// GenericError is shown when the agency rejects a submission without saying why.
const GenericError = "An error occurred"

// ErrInvalid is returned by Submit when local validation failed and nothing
// was sent.
var ErrInvalid = errors.New("form has invalid fields")

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

type CatWriter interface {
	CreateCat(ctx context.Context, cat models.CatCreate) (models.Cat, error)
	UpdateCat(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error)
}

type BreedLister interface {
	ListValidBreeds(ctx context.Context) ([]string, error)
}

type Controller struct {
	seed     *models.Cat
	editable policy.FieldSet
	values   policy.Values
	errors   policy.Errors
	state    State
	saved    models.Cat

	breeds        []string
	breedsLoading bool

	logger *slog.Logger
}

// New opens a form session. A nil seed starts a new cat; a seed edits that
// cat with every field except salary frozen.
func New(seed *models.Cat, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		editable: policy.EditableFor(seed != nil),
		values:   policy.Values{},
		errors:   policy.Errors{},
		logger:   logger,
	}
	if seed != nil {
		cat := *seed
		c.seed = &cat
		c.values = policy.ValuesFromCat(cat)
	}
	return c
}

func (c *Controller) Mode() Mode {
	if c.seed != nil {
		return ModeEdit
	}
	return ModeCreate
}

func (c *Controller) Seed() (models.Cat, bool) {
	if c.seed == nil {
		return models.Cat{}, false
	}
	return *c.seed, true
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Title() string {
	if c.Mode() == ModeEdit {
		return "Edit Cat"
	}
	return "Add New Cat"
}

func (c *Controller) Subtitle() string {
	if c.Mode() == ModeEdit {
		return "Update the cat salary (only salary can be modified)"
	}
	return "Enter the cat information below"
}

func (c *Controller) SubmitLabel() string {
	switch {
	case c.state == StateSubmitting:
		return "Saving..."
	case c.Mode() == ModeEdit:
		return "Update Cat"
	default:
		return "Add Cat"
	}
}

func (c *Controller) Editable(f policy.Field) bool {
	return c.editable.Has(f)
}

func (c *Controller) EditableFields() []policy.Field {
	return c.editable.Fields()
}

func (c *Controller) Value(f policy.Field) string {
	return c.values[f]
}

// SetValue stores input for an editable field and clears its error. Frozen
// fields are left untouched and SetValue reports false.
func (c *Controller) SetValue(f policy.Field, value string) bool {
	if !c.editable.Has(f) || c.state == StateSubmitting {
		return false
	}
	c.values[f] = value
	delete(c.errors, f)
	return true
}

func (c *Controller) Errors() policy.Errors {
	return maps.Clone(c.errors)
}

func (c *Controller) Error(f policy.Field) string {
	return c.errors[f]
}

func (c *Controller) Breeds() []string {
	return slices.Clone(c.breeds)
}

func (c *Controller) BreedsLoading() bool {
	return c.breedsLoading
}

// BeginBreedLoad marks the valid breed list as in flight.
func (c *Controller) BeginBreedLoad() {
	c.breedsLoading = true
}

// SetBreeds stores the breed enumeration for this session. A failed load
// leaves the list empty, which turns the membership check off.
func (c *Controller) SetBreeds(breeds []string, err error) {
	c.breedsLoading = false
	if err != nil {
		c.logger.Warn("failed to fetch breeds", "error", err)
		c.breeds = nil
		return
	}
	c.breeds = slices.Clone(breeds)
}

func (c *Controller) LoadBreeds(ctx context.Context, api BreedLister) {
	c.BeginBreedLoad()
	breeds, err := api.ListValidBreeds(ctx)
	c.SetBreeds(breeds, err)
}

// BreedFreeText reports whether the breed is typed rather than picked. That
// is the case once a breed load has failed or returned nothing.
func (c *Controller) BreedFreeText() bool {
	return c.editable.Has(policy.FieldBreed) && !c.breedsLoading && len(c.breeds) == 0
}

// CycleBreed moves the breed selection by delta through the loaded breeds,
// wrapping at both ends.
func (c *Controller) CycleBreed(delta int) bool {
	if len(c.breeds) == 0 || !c.editable.Has(policy.FieldBreed) {
		return false
	}
	current := slices.Index(c.breeds, c.values[policy.FieldBreed])
	var next int
	switch {
	case current < 0 && delta < 0:
		next = len(c.breeds) - 1
	case current < 0:
		next = 0
	default:
		next = ((current+delta)%len(c.breeds) + len(c.breeds)) % len(c.breeds)
	}
	return c.SetValue(policy.FieldBreed, c.breeds[next])
}

// Submission is a validated request ready to be sent. It holds no reference
// to the controller and may be sent from another goroutine.
type Submission struct {
	CatId   int64
	Payload policy.Payload
}

func (s Submission) Send(ctx context.Context, api CatWriter) (models.Cat, error) {
	if s.Payload.Update != nil {
		return api.UpdateCat(ctx, s.CatId, *s.Payload.Update)
	}
	return api.CreateCat(ctx, *s.Payload.Create)
}

// Prepare validates the form. On failure it records per-field errors, stays
// idle and returns false; no request may be sent. On success the controller
// is submitting until Resolve is called.
func (c *Controller) Prepare() (Submission, bool) {
	if c.state == StateSubmitting {
		return Submission{}, false
	}
	c.state = StateValidating

	errs := policy.Validate(c.values, c.editable, c.breeds)
	if !errs.Empty() {
		c.errors = errs
		c.state = StateIdle
		return Submission{}, false
	}

	payload, err := policy.BuildPayload(c.values, c.editable)
	if err != nil {
		c.errors = policy.Errors{policy.FieldGeneral: err.Error()}
		c.state = StateIdle
		return Submission{}, false
	}

	submission := Submission{Payload: payload}
	if c.seed != nil {
		submission.CatId = c.seed.Id
	}
	c.errors = policy.Errors{}
	c.state = StateSubmitting
	return submission, true
}

// Resolve records the agency's answer to the pending submission.
func (c *Controller) Resolve(cat models.Cat, err error) {
	if c.state != StateSubmitting {
		return
	}
	if err != nil {
		field, msg := AttributeError(err)
		c.logger.Info("cat submission rejected", "mode", c.Mode(), "field", field, "error", err)
		c.errors = policy.Errors{field: msg}
		c.state = StateIdle
		return
	}
	c.saved = cat
	c.state = StateSuccess
}

// Submit runs a whole submission synchronously.
func (c *Controller) Submit(ctx context.Context, api CatWriter) (models.Cat, error) {
	submission, ok := c.Prepare()
	if !ok {
		return models.Cat{}, ErrInvalid
	}
	cat, err := submission.Send(ctx, api)
	c.Resolve(cat, err)
	if err != nil {
		return models.Cat{}, err
	}
	return cat, nil
}

// Saved returns the cat the agency echoed back after a successful submission.
func (c *Controller) Saved() models.Cat {
	return c.saved
}

// AttributeError decides which input an agency rejection belongs to. A field
// tag sent by the agency wins. Without one, any message mentioning "breed"
// goes to the breed input and everything else is a form-level error.
func AttributeError(err error) (policy.Field, string) {
	msg := myerrors.DetailOr(err, GenericError)

	var validationErr *myerrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field != "" {
		if field, ok := policy.ParseField(validationErr.Field); ok {
			return field, msg
		}
	}
	if strings.Contains(msg, "breed") {
		return policy.FieldBreed, msg
	}
	return policy.FieldGeneral, msg
}
