/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package email

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // invites name arbitrary IANA zones
)

const (
	// LocalTimeLayout is the layout of start_time and end_time arguments.
	LocalTimeLayout = "2006-01-02 15:04:05"

	icsTimeLayout = "20060102T150405Z"
)

// Event is a single calendar invite.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start, End  time.Time
	Stamp       time.Time
}

// ICS renders the event as an iCalendar document with CRLF line endings.
func (e Event) ICS() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//AI Invite//Example//EN",
		"BEGIN:VEVENT",
		"UID:" + e.UID,
		"DTSTAMP:" + e.Stamp.UTC().Format(icsTimeLayout),
		"DTSTART:" + e.Start.UTC().Format(icsTimeLayout),
		"DTEND:" + e.End.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeText(e.Summary),
		"DESCRIPTION:" + escapeText(e.Description),
		"LOCATION:Online",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escapeText(s string) string { return icsEscaper.Replace(s) }

// ParseLocal parses a "YYYY-MM-DD HH:MM:SS" wall clock time in the named
// IANA time zone.
func ParseLocal(value, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil || zone == "" {
		return time.Time{}, fmt.Errorf("invalid time zone %q", zone)
	}
	t, err := time.ParseInLocation(LocalTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD HH:MM:SS: %w", value, err)
	}
	return t, nil
}
