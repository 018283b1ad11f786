// SPDX-License-Identifier: MPL-2.0

// Package keystroke decodes raw terminal input into key and mouse events.
//
// Bytes are pulled one at a time from a ByteSource, assembled into runes by
// ReadCharacter and classified by a Decoder into KeyStroke values. Malformed
// UTF-8 and unrecognized escape sequences are dropped without surfacing an
// error, so stray bytes never break an interactive prompt.
package keystroke
