// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover files (MustWriteFile, MustMkdirAll), resource cleanup
// (CloseOnCleanup, StopOnCleanup) and polling for asynchronous state
// (Eventually).
package testutil
