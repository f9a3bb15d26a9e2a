// Package catlist keeps the console's snapshot of every cat the agency
// knows about. The snapshot is only ever replaced by a full refetch; it is
// never patched locally after a mutation.
package catlist

import (
	"context"
	"log/slog"
	"slices"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/myerrors"
)

const (
	FetchError  = "Failed to fetch cats"
	DeleteError = "Failed to delete cat"

	ConfirmPrompt = "Are you sure you want to delete this cat?"
)

type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type CatLister interface {
	ListCats(ctx context.Context) ([]models.Cat, error)
}

type CatDeleter interface {
	CatLister
	DeleteCat(ctx context.Context, id int64) error
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer func(prompt string) bool

type List struct {
	cats    []models.Cat
	status  Status
	errMsg  string
	cursor  int
	pending *int64
	// seq identifies the latest refresh; answers to older ones are dropped
	seq uint64

	logger *slog.Logger
}

func New(logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}
	return &List{status: StatusLoading, logger: logger}
}

func (l *List) Status() Status {
	return l.status
}

// Err is the message shown while the status is StatusError.
func (l *List) Err() string {
	return l.errMsg
}

func (l *List) Cats() []models.Cat {
	return slices.Clone(l.cats)
}

func (l *List) Len() int {
	return len(l.cats)
}

// IsEmpty reports a successful load that returned no cats. It is false while
// loading so the two states never look alike.
func (l *List) IsEmpty() bool {
	return l.status != StatusLoading && len(l.cats) == 0
}

// BeginRefresh marks a refetch as in flight and returns its sequence number.
// Only the answer carrying the latest number is installed.
func (l *List) BeginRefresh() uint64 {
	l.seq++
	l.status = StatusLoading
	return l.seq
}

// ApplyRefresh installs the result of refresh seq. A result for anything but
// the latest refresh is stale and dropped, so an older list never overwrites
// a newer one. A failure keeps the previous snapshot so the screen degrades
// instead of blanking.
func (l *List) ApplyRefresh(seq uint64, cats []models.Cat, err error) bool {
	if seq != l.seq {
		l.logger.Debug("dropping stale cat list", "seq", seq, "latest", l.seq)
		return false
	}
	if err != nil {
		l.logger.Error("failed to fetch cats", "error", err)
		l.status = StatusError
		l.errMsg = FetchError
		return true
	}
	l.cats = slices.Clone(cats)
	l.status = StatusLoaded
	l.errMsg = ""
	l.clampCursor()
	return true
}

func (l *List) Refresh(ctx context.Context, api CatLister) error {
	seq := l.BeginRefresh()
	cats, err := api.ListCats(ctx)
	l.ApplyRefresh(seq, cats, err)
	return err
}

func (l *List) Cursor() int {
	return l.cursor
}

func (l *List) MoveCursor(delta int) {
	l.cursor += delta
	l.clampCursor()
}

func (l *List) Selected() (models.Cat, bool) {
	if l.cursor < 0 || l.cursor >= len(l.cats) {
		return models.Cat{}, false
	}
	return l.cats[l.cursor], true
}

func (l *List) clampCursor() {
	if l.cursor >= len(l.cats) {
		l.cursor = len(l.cats) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// RequestDelete starts the confirmation step for id. Nothing is sent until
// Confirm(true).
func (l *List) RequestDelete(id int64) {
	l.pending = &id
}

func (l *List) PendingDelete() (int64, bool) {
	if l.pending == nil {
		return 0, false
	}
	return *l.pending, true
}

// Confirm ends the confirmation step and returns the id to delete only when
// the user agreed.
func (l *List) Confirm(yes bool) (int64, bool) {
	if l.pending == nil {
		return 0, false
	}
	id := *l.pending
	l.pending = nil
	if !yes {
		l.logger.Debug("delete declined", "cat_id", id)
		return 0, false
	}
	return id, true
}

// DeleteAlert turns a failed delete into the message the user is alerted
// with. The snapshot is not touched.
func (l *List) DeleteAlert(id int64, err error) string {
	l.logger.Warn("failed to delete cat", "cat_id", id, "error", err)
	return myerrors.DetailOr(err, DeleteError)
}

// Delete runs the whole delete flow synchronously: confirm, delete, then
// refetch. The returned alert is empty unless the delete itself failed. A
// failed refetch does not undo the delete; it leaves the list in StatusError.
func (l *List) Delete(ctx context.Context, api CatDeleter, id int64, confirm Confirmer) (deleted bool, alert string) {
	l.RequestDelete(id)
	if _, ok := l.Confirm(confirm(ConfirmPrompt)); !ok {
		return false, ""
	}
	if err := api.DeleteCat(ctx, id); err != nil {
		return false, l.DeleteAlert(id, err)
	}
	if err := l.Refresh(ctx, api); err != nil {
		l.logger.Warn("cat deleted but the list could not be refetched", "cat_id", id)
	}
	return true, ""
}
