package huffman

import "github.com/juju/errors"

// ErrOverSubscribed is returned when a code-length vector describes more
// codes of some length than the Kraft inequality allows.
var ErrOverSubscribed = errors.New("huffman: over-subscribed code lengths")

// ErrIncomplete is returned when a code-length vector leaves unused code
// space and isn't the legal all-zero "no codes defined" table.
var ErrIncomplete = errors.New("huffman: incomplete code lengths")

// ErrInvalidCode is returned when decoding a symbol consumes more than
// MaxCodeLength bits without resolving to a valid code.
var ErrInvalidCode = errors.New("huffman: invalid code")

// ErrReductionFailed is returned by RestrictCodeLengths when no symbol B
// with the same over-long code length as the worst offender can be found,
// or when no symbol shorter than the bound is left to lengthen.
// It indicates a bug in the caller's frequency table, not bad input data.
var ErrReductionFailed = errors.New("huffman: code length reduction failed")
