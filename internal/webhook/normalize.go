// Package webhook turns loosely structured provider events into a canonical
// (tenant, user, kind) event.
//
// Every lookup walks an ordered table of extractors and stops at the first
// one that yields a non-empty value. The tables are exported so their
// precedence is visible and tested.
package webhook

import (
	"github.com/shinyyama/leaderboard-backend/internal/apperr"
	"github.com/tidwall/gjson"
)

type Kind string

const (
	KindIgnored           Kind = ""
	KindMembershipValid   Kind = "membership.went_valid"
	KindMembershipInvalid Kind = "membership.went_invalid"
	KindPaymentSucceeded  Kind = "payment.succeeded"
)

// ParseKind maps a raw event type onto a known kind; anything else is ignored.
func ParseKind(eventType string) Kind {
	switch k := Kind(eventType); k {
	case KindMembershipValid, KindMembershipInvalid, KindPaymentSucceeded:
		return k
	}
	return KindIgnored
}

// DefaultUsername is used when the payload names no one.
const DefaultUsername = "Whop User"

// Extractor probes one location of a JSON object.
type Extractor func(obj gjson.Result) (string, bool)

// Field extracts a non-empty string or number at a gjson path.
func Field(path string) Extractor {
	return func(obj gjson.Result) (string, bool) {
		v := obj.Get(path)
		if v.Type != gjson.String && v.Type != gjson.Number {
			return "", false
		}
		s := v.String()
		return s, s != ""
	}
}

// FirstOf runs extractors in order and returns the first hit.
func FirstOf(obj gjson.Result, extractors []Extractor) (string, bool) {
	for _, ex := range extractors {
		if v, ok := ex(obj); ok {
			return v, true
		}
	}
	return "", false
}

// Fields builds an extractor table from gjson paths, keeping their order.
func Fields(paths ...string) []Extractor {
	out := make([]Extractor, 0, len(paths))
	for _, p := range paths {
		out = append(out, Field(p))
	}
	return out
}

var EventTypeExtractors = Fields("action", "event_type")

// EnvelopePaths are tried before falling back to the body itself.
var EnvelopePaths = []string{"data", "payload"}

var TenantExtractors = Fields(
	"company_id",
	"company.id",
	"membership.company.id",
	"membership.company_id",
	"workspace.id",
)

// UserObjectPaths are tried before falling back to the envelope itself.
var UserObjectPaths = []string{"user", "membership.user"}

var (
	UserIDExtractors   = Fields("id", "whop_user_id", "user_id")
	UsernameExtractors = Fields("username", "display_name", "email")
	AvatarExtractors   = Fields("profile_picture", "avatar_url")
)

var ErrInvalidPayload = apperr.InvalidArgument("invalid webhook payload")

type Event struct {
	Type     string
	Kind     Kind
	TenantID string
	UserID   string
	Username string
	Avatar   *string
}

// Ignored reports whether the event carries no ledger action.
func (e Event) Ignored() bool {
	return e.Kind == KindIgnored
}

func firstObject(obj gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if v := obj.Get(p); v.IsObject() {
			return v
		}
	}
	return obj
}

// Normalize parses body and resolves the event. queryTenant, when set, wins
// over any tenant found in the payload. Unknown event types come back as an
// ignored event without tenant or user resolution.
func Normalize(body []byte, queryTenant string) (Event, error) {
	if !gjson.ValidBytes(body) {
		return Event{}, ErrInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Event{}, ErrInvalidPayload
	}

	eventType, _ := FirstOf(root, EventTypeExtractors)
	ev := Event{Type: eventType, Kind: ParseKind(eventType)}
	if ev.Ignored() {
		return ev, nil
	}

	envelope := firstObject(root, EnvelopePaths)

	ev.TenantID = queryTenant
	if ev.TenantID == "" {
		ev.TenantID, _ = FirstOf(envelope, TenantExtractors)
	}
	if ev.TenantID == "" {
		return ev, apperr.ErrMissingTenant
	}

	user := firstObject(envelope, UserObjectPaths)
	id, ok := FirstOf(user, UserIDExtractors)
	if !ok {
		return ev, apperr.ErrMissingUser
	}
	ev.UserID = id
	ev.Username = DefaultUsername
	if name, ok := FirstOf(user, UsernameExtractors); ok {
		ev.Username = name
	}
	if avatar, ok := FirstOf(user, AvatarExtractors); ok {
		ev.Avatar = &avatar
	}
	return ev, nil
}
