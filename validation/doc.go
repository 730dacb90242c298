// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package validation checks field-level rules and the rating range.
// Results are reported as *errs.ValidationError; nothing here touches storage.
package validation
