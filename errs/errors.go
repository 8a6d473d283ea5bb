// Package errs defines the sentinel errors shared across the stata module.
//
// Failures about the content of a file or table wrap one of these
// sentinels, so callers can classify them with errors.Is without parsing
// messages. Errors from the underlying stream and from option validation
// are returned without a sentinel.
//
//	tbl, err := stata.ReadFile("survey.dta")
//	if errors.Is(err, errs.ErrUnsupportedVersion) {
//	    // only dta releases 117 and 118 are handled
//	}
package errs

import "errors"

// File structure errors. Any of these aborts decoding; no partial table is
// ever returned.
var (
	// ErrFormat reports a malformed file: an expected section marker was not
	// found at the current position, or a section length is inconsistent.
	ErrFormat = errors.New("malformed dta file")

	// ErrUnsupportedVersion reports a dta release other than 117 or 118.
	ErrUnsupportedVersion = errors.New("unsupported dta format version")

	// ErrUnsupportedEndian reports a byte-order marker other than LSF.
	ErrUnsupportedEndian = errors.New("unsupported byte order")

	// ErrInvalidType reports a storage type code outside the recognized set.
	ErrInvalidType = errors.New("invalid storage type code")

	// ErrInvalidStrlFlag reports a GSO record whose flag byte is neither 129
	// (binary) nor 130 (null-terminated text).
	ErrInvalidStrlFlag = errors.New("invalid strL flag byte")
)

// Write-side errors.
var (
	// ErrColumnExcluded marks a column that cannot be represented in the dta
	// format. It is reported through the writer's verbose channel; the file
	// is still produced without the column.
	ErrColumnExcluded = errors.New("column excluded from output")

	// ErrNoColumns reports a write where every input column was excluded or
	// the table is empty. A dta file with zero variables is not produced.
	ErrNoColumns = errors.New("no writable columns")
)

// Frame container errors.
var (
	// ErrColumnLengthMismatch reports columns of unequal length passed to a
	// table constructor or concatenation.
	ErrColumnLengthMismatch = errors.New("column length mismatch")

	// ErrDuplicateColumnName reports two columns sharing a name within one
	// table.
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrUnknownColumn reports a lookup of a column name that is not in the
	// table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrKindMismatch reports concatenation or categorical construction over
	// columns of differing kinds.
	ErrKindMismatch = errors.New("column kind mismatch")

	// ErrInvalidCategoryCode reports a categorical code with no entry in the
	// level pool.
	ErrInvalidCategoryCode = errors.New("invalid category code")
)
