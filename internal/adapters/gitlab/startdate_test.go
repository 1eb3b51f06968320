package gitlab

import (
	"testing"
	"time"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

func TestParseStartDateBody(t *testing.T) {
	cases := []struct {
		body string
		want string
		ok   bool
	}{
		{"**Start Date:** 2024-03-05", "2024-03-05", true},
		{"**start date:** 2024-03-05", "2024-03-05", true},
		{"**START DATE:**2024-03-05", "2024-03-05", true},
		{"**Start Date:**   2024-03-05 trailing text", "2024-03-05", true},
		{"Start Date: 2024-03-05", "", false},
		{"some comment mentioning **Start Date:** 2024-03-05", "", false},
		{"**Start Date:** 05/03/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, ok := parseStartDateBody(tc.body)
		if ok != tc.ok {
			t.Fatalf("parseStartDateBody(%q) ok = %v, want %v", tc.body, ok, tc.ok)
		}
		if ok && d.String() != tc.want {
			t.Fatalf("parseStartDateBody(%q) = %s, want %s", tc.body, d, tc.want)
		}
	}
}

func TestStartDateMarkerRoundTrip(t *testing.T) {
	d := domain.NewDate(2024, time.March, 5)
	got, ok := parseStartDateBody(startDateMarker(d))
	if !ok || got != d {
		t.Fatalf("marker round trip = %v/%v", got, ok)
	}
}

func TestFindStartDateNoteTakesFirstMatch(t *testing.T) {
	notes := []notePayload{
		{ID: 1, Body: "hello"},
		{ID: 2, Body: "**Start Date:** 2024-03-05"},
		{ID: 3, Body: "**Start Date:** 2024-04-01"},
	}
	id, d, ok := findStartDateNote(notes)
	if !ok || id != 2 || d.String() != "2024-03-05" {
		t.Fatalf("findStartDateNote() = %d/%s/%v", id, d, ok)
	}
}
