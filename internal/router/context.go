package router

import (
	"fmt"

	"github.com/selflayer/selflayer-cli/internal/api"
)

// ListKind identifies which resource the last listing showed. Numbered
// back-references only resolve against a listing of the same kind.
type ListKind string

const (
	ListNone          ListKind = ""
	ListDocuments     ListKind = "document"
	ListNotes         ListKind = "note"
	ListNotifications ListKind = "notification"
	ListIntegrations  ListKind = "integration"
	ListAutomations   ListKind = "automation"
)

// Item is one row of a listing, remembered so the user can refer to it
// by its display number.
type Item struct {
	ID    string
	Label string
}

// CommandContext holds the conversational state of the session: the
// last listing shown and the pagination cursor per resource.
type CommandContext struct {
	kind    ListKind
	items   []Item
	base    int // display number of items[0] is base+1
	offsets map[ListKind]int
}

// NewCommandContext creates an empty context.
func NewCommandContext() *CommandContext {
	return &CommandContext{offsets: make(map[ListKind]int)}
}

// SetListing replaces the active listing. base is the pagination offset
// of the first item, so page two of notes numbers from base+1.
func (c *CommandContext) SetListing(kind ListKind, items []Item, base int) {
	c.kind = kind
	c.items = items
	c.base = base
}

// Resolve maps a display number back to the listed item. It fails with
// a validation error, never a network call, when no listing of the
// right kind is active or the number is out of range.
func (c *CommandContext) Resolve(kind ListKind, number int) (Item, error) {
	if c.kind != kind {
		return Item{}, &api.APIError{
			Kind:    api.KindValidation,
			Message: fmt.Sprintf("no %s listing is active. List %ss first", kind, kind),
		}
	}
	idx := number - c.base - 1
	if idx < 0 || idx >= len(c.items) {
		return Item{}, &api.APIError{
			Kind:    api.KindValidation,
			Message: fmt.Sprintf("%s #%d not found in the current listing", kind, number),
		}
	}
	return c.items[idx], nil
}

// Offset returns the pagination cursor for kind.
func (c *CommandContext) Offset(kind ListKind) int {
	return c.offsets[kind]
}

// SetOffset moves the pagination cursor for kind.
func (c *CommandContext) SetOffset(kind ListKind, offset int) {
	c.offsets[kind] = offset
}

// ActiveKind returns the kind of the current listing.
func (c *CommandContext) ActiveKind() ListKind {
	return c.kind
}

// Clear drops the active listing and all pagination cursors.
func (c *CommandContext) Clear() {
	c.kind = ListNone
	c.items = nil
	c.base = 0
	c.offsets = make(map[ListKind]int)
}
