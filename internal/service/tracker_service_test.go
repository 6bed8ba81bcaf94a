package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/queue"

	"github.com/google/uuid"
)

var (
	cookieCartID    = uuid.MustParse("1c7e4a2b-9d3f-4e8a-b6c5-7f0a1b2c3d4e")
	bodyCartID      = uuid.MustParse("5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d")
	generatedCartID = uuid.MustParse("0f1e2d3c-4b5a-4968-8776-655443322110")
)

type recordingDispatcher struct {
	calls []queue.CartAddItemPayload
	err   error
}

func (d *recordingDispatcher) DispatchAddItem(_ context.Context, payload queue.CartAddItemPayload) error {
	d.calls = append(d.calls, payload)
	return d.err
}

func fixedID() uuid.UUID {
	return generatedCartID
}

func TestTrackRequiresProductID(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc := NewTrackerService(dispatcher, fixedID)

	if _, err := svc.Track(context.Background(), TrackInput{}); !errors.Is(err, ErrProductIDRequired) {
		t.Fatalf("want ErrProductIDRequired got %v", err)
	}
	if len(dispatcher.calls) != 0 {
		t.Fatalf("nothing should be dispatched without product id")
	}
}

func TestTrackCartIDResolution(t *testing.T) {
	cases := []struct {
		name      string
		cookie    *string
		body      string
		want      uuid.UUID
		generated bool
	}{
		{name: "cookie used", cookie: name(cookieCartID.String()), want: cookieCartID},
		{name: "cookie preferred over body", cookie: name(cookieCartID.String()), body: bodyCartID.String(), want: cookieCartID},
		{name: "body used when cookie absent", body: bodyCartID.String(), want: bodyCartID},
		{name: "empty cookie still wins over body", cookie: name(""), body: bodyCartID.String(), want: generatedCartID, generated: true},
		{name: "blank cookie still wins over body", cookie: name("  "), body: bodyCartID.String(), want: generatedCartID, generated: true},
		{name: "generated when missing", want: generatedCartID, generated: true},
		{name: "invalid cookie replaced", cookie: name("garbage"), body: bodyCartID.String(), want: generatedCartID, generated: true},
		{name: "non v4 uuid replaced", body: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", want: generatedCartID, generated: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dispatcher := &recordingDispatcher{}
			svc := NewTrackerService(dispatcher, fixedID)
			name := "pants"
			price := "50"

			result, err := svc.Track(context.Background(), TrackInput{
				CookieCartID: tc.cookie,
				BodyCartID:   tc.body,
				ProductID:    "prodid",
				Name:         &name,
				Price:        &price,
			})
			if err != nil {
				t.Fatalf("track failed: %v", err)
			}
			if result.CartID != tc.want.String() {
				t.Fatalf("cart id want %s got %s", tc.want, result.CartID)
			}
			if result.Generated != tc.generated {
				t.Fatalf("generated want %v got %v", tc.generated, result.Generated)
			}
			if len(dispatcher.calls) != 1 {
				t.Fatalf("dispatch calls want 1 got %d", len(dispatcher.calls))
			}
			got := dispatcher.calls[0]
			if got.CartID != tc.want.String() || got.ProductID != "prodid" || *got.Name != "pants" || *got.Price != "50.00" {
				t.Fatalf("unexpected payload: %+v", got)
			}
		})
	}
}

func TestTrackRejectsInvalidPrice(t *testing.T) {
	svc := NewTrackerService(&recordingDispatcher{}, fixedID)
	price := "cheap"
	if _, err := svc.Track(context.Background(), TrackInput{ProductID: "prodid", Price: &price}); !errors.Is(err, ErrPriceInvalid) {
		t.Fatalf("want ErrPriceInvalid got %v", err)
	}
}

func TestTrackWrapsDispatchError(t *testing.T) {
	svc := NewTrackerService(&recordingDispatcher{err: errors.New("redis down")}, fixedID)
	if _, err := svc.Track(context.Background(), TrackInput{ProductID: "prodid"}); !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("want ErrDispatchFailed got %v", err)
	}
}

func TestNormalizeCartIDCanonicalizes(t *testing.T) {
	got, ok := NormalizeCartID("{" + "1C7E4A2B-9D3F-4E8A-B6C5-7F0A1B2C3D4E" + "}")
	if !ok {
		t.Fatalf("braced upper-case uuid should be accepted")
	}
	if got != cookieCartID.String() {
		t.Fatalf("want %s got %s", cookieCartID, got)
	}
	if _, ok := NormalizeCartID(""); ok {
		t.Fatalf("empty cart id should be rejected")
	}
}

func TestInlineDispatcherRunsUpsert(t *testing.T) {
	cartService, db := newCartServiceTest(t)
	svc := NewTrackerService(NewInlineDispatcher(cartService), fixedID)

	result, err := svc.Track(context.Background(), TrackInput{ProductID: "prodid"})
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if result.CartID != generatedCartID.String() {
		t.Fatalf("cart id want %s got %s", generatedCartID, result.CartID)
	}
	if got := countRows(t, db, &models.Item{}); got != 1 {
		t.Fatalf("item count want 1 got %d", got)
	}
}
