// Package zlib implements the RFC 1950 framing around package deflate:
// the 2-byte CMF/FLG header and the trailing Adler-32 checksum, plus a
// streaming Inflator that lets a single DEFLATE stream span many
// independently-framed chunks of input — the shape RFB's ZRLE encoding
// needs, where one zlib stream is shared across every rectangle of a
// session.
package zlib

import "github.com/juju/errors"

// ErrUnsupportedCompressionMethod is returned when CMF's low nibble isn't
// 8 (DEFLATE), the only method RFC 1950 defines besides reserved values.
var ErrUnsupportedCompressionMethod = errors.New("zlib: unsupported compression method")

// ErrPresetDictionaryUnsupported is returned when FLG's FDICT bit is set;
// RFB never negotiates a preset dictionary and this client doesn't
// implement one.
var ErrPresetDictionaryUnsupported = errors.New("zlib: preset dictionaries are not supported")

// ErrChecksumMismatch is returned when the trailing Adler-32 doesn't
// match the decompressed output.
var ErrChecksumMismatch = errors.New("zlib: Adler-32 checksum mismatch")

// ErrHeaderTooShort is returned when fewer than 2 bytes are available to
// parse the CMF/FLG header from.
var ErrHeaderTooShort = errors.New("zlib: fewer than 2 bytes available for header")
