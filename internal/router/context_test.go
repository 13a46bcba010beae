package router

import (
	"testing"

	"github.com/selflayer/selflayer-cli/internal/api"
)

func TestResolveWithBase(t *testing.T) {
	c := NewCommandContext()
	c.SetListing(ListNotes, []Item{{ID: "n3", Label: "third"}, {ID: "n4", Label: "fourth"}}, 2)

	item, err := c.Resolve(ListNotes, 3)
	if err != nil {
		t.Fatalf("Resolve(3) error = %v", err)
	}
	if item.ID != "n3" {
		t.Errorf("item = %+v", item)
	}

	if _, err := c.Resolve(ListNotes, 2); !api.IsKind(err, api.KindValidation) {
		t.Errorf("Resolve(2) below page start: error = %v, want validation", err)
	}
	if _, err := c.Resolve(ListNotes, 5); !api.IsKind(err, api.KindValidation) {
		t.Errorf("Resolve(5) past page end: error = %v, want validation", err)
	}
}

func TestResolveWrongKind(t *testing.T) {
	c := NewCommandContext()
	c.SetListing(ListDocuments, []Item{{ID: "d1", Label: "doc"}}, 0)

	if _, err := c.Resolve(ListNotes, 1); !api.IsKind(err, api.KindValidation) {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestOffsetsSurviveListingChange(t *testing.T) {
	c := NewCommandContext()
	c.SetOffset(ListNotes, 40)
	c.SetListing(ListDocuments, nil, 0)

	if got := c.Offset(ListNotes); got != 40 {
		t.Errorf("Offset(notes) = %d, want 40", got)
	}

	c.Clear()
	if got := c.Offset(ListNotes); got != 0 {
		t.Errorf("Offset(notes) after Clear = %d, want 0", got)
	}
}
