package security

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"interviewdesk-backend/internal/domain"
)

// Offer tokens are the payloads embedded in the accept/reject links mailed
// to interviewers. They are reversible, URL-safe serializations, not signed:
// every redemption re-validates slot and candidate state, which bounds what
// a forged token could achieve. Do not switch this to a signed format
// without treating it as a behavior change.

type OfferAction string

const (
	OfferActionAccept OfferAction = "accept"
	OfferActionReject OfferAction = "reject"
)

const offerFieldCount = 7

const (
	scheduleTimeLayout      = "2006-01-02 15:04:05"
	scheduleTimeMicroLayout = "2006-01-02 15:04:05.000000"
)

// OfferToken is the fixed ordered tuple carried by an offer link.
type OfferToken struct {
	AvailabilityID int32
	CandidateID    int32
	ScheduleTime   time.Time
	BookedBy       int32
	ExpiredTime    time.Time
	SchedulingID   int32
	Action         OfferAction
}

// Expired reports whether the token's embedded expiry has passed.
func (t *OfferToken) Expired(now time.Time) bool {
	return now.After(t.ExpiredTime)
}

// EncodeOfferToken serializes the token as base64url over `;`-joined
// `key:value` fields.
func EncodeOfferToken(t OfferToken) string {
	raw := fmt.Sprintf(
		"interviewer_availability_id:%d;"+
			"candidate_id:%d;"+
			"schedule_time:%s;"+
			"booked_by:%d;"+
			"expired_time:%s;"+
			"scheduling_id:%d;"+
			"action:%s",
		t.AvailabilityID,
		t.CandidateID,
		t.ScheduleTime.Format(scheduleTimeLayout),
		t.BookedBy,
		t.ExpiredTime.Format(scheduleTimeMicroLayout),
		t.SchedulingID,
		t.Action,
	)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeOfferToken parses an offer link payload. It fails with
// domain.ErrMalformedToken when the payload does not split into exactly
// seven key:value segments or any field fails coercion. Expiry and attempt
// staleness are NOT checked here; callers re-check both at redemption.
func DecodeOfferToken(encoded string) (*OfferToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		// tolerate padded input
		if padded, perr := base64.URLEncoding.DecodeString(encoded); perr == nil {
			raw = padded
		} else {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
		}
	}

	parts := strings.Split(string(raw), ";")
	if len(parts) != offerFieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", domain.ErrMalformedToken, offerFieldCount, len(parts))
	}

	values := make([]string, 0, offerFieldCount)
	for _, part := range parts {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: field %q is not key:value", domain.ErrMalformedToken, part)
		}
		values = append(values, kv[1])
	}

	availabilityID, err := parseID(values[0])
	if err != nil {
		return nil, fmt.Errorf("%w: availability id: %v", domain.ErrMalformedToken, err)
	}
	candidateID, err := parseID(values[1])
	if err != nil {
		return nil, fmt.Errorf("%w: candidate id: %v", domain.ErrMalformedToken, err)
	}
	scheduleTime, err := parseScheduleTime(values[2])
	if err != nil {
		return nil, fmt.Errorf("%w: schedule time: %v", domain.ErrMalformedToken, err)
	}
	bookedBy, err := parseID(values[3])
	if err != nil {
		return nil, fmt.Errorf("%w: booked by: %v", domain.ErrMalformedToken, err)
	}
	expiredTime, err := parseScheduleTime(values[4])
	if err != nil {
		return nil, fmt.Errorf("%w: expired time: %v", domain.ErrMalformedToken, err)
	}
	schedulingID, err := parseID(values[5])
	if err != nil {
		return nil, fmt.Errorf("%w: scheduling id: %v", domain.ErrMalformedToken, err)
	}

	action := OfferAction(values[6])
	if action != OfferActionAccept && action != OfferActionReject {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrMalformedToken, values[6])
	}

	return &OfferToken{
		AvailabilityID: availabilityID,
		CandidateID:    candidateID,
		ScheduleTime:   scheduleTime,
		BookedBy:       bookedBy,
		ExpiredTime:    expiredTime,
		SchedulingID:   schedulingID,
		Action:         action,
	}, nil
}

func parseID(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func parseScheduleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(scheduleTimeMicroLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation(scheduleTimeLayout, s, time.UTC)
}
