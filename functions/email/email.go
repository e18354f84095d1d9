/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package email exposes ai_send_email and ai_send_calendar_invite.
//
// Both send from the configured account to the configured recipient (the
// account itself by default) over SMTP with implicit TLS.
package email

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"time"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// Sender sends mail for the handlers.
type Sender struct {
	cfg       Config
	transport Transport
	now       func() time.Time
}

// Option configures a Sender.
type Option func(*Sender)

// WithTransport replaces the SMTP transport.
func WithTransport(t Transport) Option {
	return func(s *Sender) { s.transport = t }
}

// WithClock replaces time.Now for DTSTAMP and Date headers.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) { s.now = now }
}

// New returns a Sender for cfg. Configuration problems surface when a
// handler is called, so an unconfigured account does not stop the other
// functions from loading.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{cfg: cfg, transport: tlsTransport{cfg: cfg}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handlers implements toolcall.Provider.
func (s *Sender) Handlers() map[string]toolcall.Func {
	return map[string]toolcall.Func{
		"ai_send_email":           s.SendEmail,
		"ai_send_calendar_invite": s.SendCalendarInvite,
	}
}

// SendEmail sends a plain text message.
func (s *Sender) SendEmail(ctx context.Context, args params.Args) (any, error) {
	subject, err := params.Extract[string](args, "subject")
	if err != nil {
		return nil, err
	}
	body, err := params.Extract[string](args, "body")
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	s.writeHeaders(&buf, subject)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	buf.WriteString(body)

	if err := s.send(ctx, buf.Bytes()); err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With("to", s.cfg.recipient()).Info("Email sent")
	return fmt.Sprintf("Email sent to %s", s.cfg.recipient()), nil
}

// SendCalendarInvite sends subject and body with an invite.ics attachment.
// start_time and end_time are wall clock times in timezone.
func (s *Sender) SendCalendarInvite(ctx context.Context, args params.Args) (any, error) {
	var (
		fields = [...]string{"subject", "body", "start_time", "end_time", "timezone"}
		vals   [len(fields)]string
	)
	for i, name := range fields {
		v, err := params.Extract[string](args, name)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	subject, body, zone := vals[0], vals[1], vals[4]

	start, err := ParseLocal(vals[2], zone)
	if err != nil {
		return nil, err
	}
	end, err := ParseLocal(vals[3], zone)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.New("end_time is before start_time")
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	ev := Event{
		UID:         newUID(),
		Summary:     subject,
		Description: body,
		Start:       start,
		End:         end,
		Stamp:       s.now(),
	}
	msg, err := s.inviteMessage(subject, body, ev)
	if err != nil {
		return nil, err
	}
	if err := s.send(ctx, msg); err != nil {
		return nil, err
	}

	clog.FromContext(ctx).With("to", s.cfg.recipient()).With("uid", ev.UID).Info("Calendar invite sent")
	return fmt.Sprintf("Calendar invite %q sent to %s for %s", subject, s.cfg.recipient(), start.Format(time.RFC3339)), nil
}

func (s *Sender) inviteMessage(subject, body string, ev Event) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	var head bytes.Buffer
	s.writeHeaders(&head, subject)
	fmt.Fprintf(&head, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(body)); err != nil {
		return nil, err
	}

	cal, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {`text/calendar; charset=utf-8; method=REQUEST; name="invite.ics"`},
		"Content-Disposition": {`attachment; filename="invite.ics"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := cal.Write([]byte(ev.ICS())); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

func (s *Sender) writeHeaders(buf *bytes.Buffer, subject string) {
	fmt.Fprintf(buf, "From: %s\r\n", s.cfg.Address)
	fmt.Fprintf(buf, "To: %s\r\n", s.cfg.recipient())
	fmt.Fprintf(buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(buf, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
}

func (s *Sender) send(ctx context.Context, msg []byte) error {
	if err := s.transport.Send(ctx, s.cfg.Address, []string{s.cfg.recipient()}, msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func newUID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d@planexec", time.Now().UnixNano())
	}
	return hex.EncodeToString(b) + "@planexec"
}
