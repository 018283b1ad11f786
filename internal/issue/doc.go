// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors: ActionableError carries the
// failed operation, the resource involved and remediation hints, and the
// Markdown issue catalog renders longer guidance with glamour.
package issue
