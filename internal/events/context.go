// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package events

import "log/slog"

// Context carries per-operation metadata through event dispatch: a logging
// handle plus optional user and tenant identities. Values are copied, never
// mutated by handlers.
type Context struct {
	logger   *slog.Logger
	UserID   string
	TenantID string
}

// NewContext creates a dispatch context with the given logger.
// A nil logger is replaced with slog.Default at Log time.
func NewContext(logger *slog.Logger) Context {
	return Context{logger: logger}
}

// WithUser returns a copy of the context carrying the given user identity.
func (c Context) WithUser(userID string) Context {
	c.UserID = userID
	return c
}

// WithTenant returns a copy of the context carrying the given tenant identity.
func (c Context) WithTenant(tenantID string) Context {
	c.TenantID = tenantID
	return c
}

// WithLogger returns a copy of the context using the given logger.
func (c Context) WithLogger(logger *slog.Logger) Context {
	c.logger = logger
	return c
}

// Log returns the context's logger, never nil.
func (c Context) Log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}
