/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package email

import (
	"errors"
	"net"
	"strconv"
)

// Config is the SMTP account used to send mail and invites.
type Config struct {
	Address  string // sender, and recipient when To is empty
	Password string
	To       string
	Host     string
	Port     int
}

// Defaults for Config.
const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 465
)

// ErrMissingPassword is returned when no SMTP password is configured.
var ErrMissingPassword = errors.New("email password not set")

// Validate checks that the configuration can be used to send mail.
func (c Config) Validate() error {
	if c.Address == "" {
		return errors.New("email address is required")
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("SMTP port must be between 1 and 65535")
	}
	return nil
}

// ServerAddress returns host:port, applying the defaults.
func (c Config) ServerAddress() string {
	host, port := c.Host, c.Port
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// recipient returns To, or Address when To is empty.
func (c Config) recipient() string {
	if c.To != "" {
		return c.To
	}
	return c.Address
}
