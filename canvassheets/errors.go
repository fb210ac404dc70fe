package canvassheets

import (
	"errors"
	"fmt"
)

// Code classifies every failure the engine reports, from definition-time
// validation through per-cell evaluation faults.
type Code uint8

const (
	// CodeOK indicates no error. It is the zero value and is never carried
	// by an *Error.
	CodeOK Code = iota
	// CodeUnknown is returned by CodeOf for errors that did not originate
	// in this package.
	CodeUnknown
	// CodeInvalidColumnLabel indicates a column label that is empty or
	// contains non-letter characters.
	CodeInvalidColumnLabel
	// CodeInvalidCellReference indicates a cell token without a letter part,
	// without a digit part, or with a negative row.
	CodeInvalidCellReference
	// CodeInvalidRangeFormat indicates range text that is not
	// region[cell] or region[start:end].
	CodeInvalidRangeFormat
	// CodeUnexpectedCharacter indicates a rune the tokenizer does not accept.
	CodeUnexpectedCharacter
	// CodeUnexpectedToken indicates a token the grammar does not accept at
	// its position.
	CodeUnexpectedToken
	// CodeUnknownFunction indicates a call to a function name outside the
	// built-in library.
	CodeUnknownFunction
	// CodeArityError indicates a built-in called with the wrong number of
	// arguments.
	CodeArityError
	// CodeDomainError indicates an argument outside a function's or
	// operator's numeric domain.
	CodeDomainError
	// CodeDivisionByZero indicates division by zero, including PMT with a
	// zero period count.
	CodeDivisionByZero
	// CodeOutOfBounds indicates a reference that resolves to a negative row
	// or column.
	CodeOutOfBounds
	// CodeScalarExpected indicates a multi-element value where a single
	// scalar is required.
	CodeScalarExpected
	// CodeUnknownTable indicates a table id with no table behind it.
	CodeUnknownTable
	// CodeNotFound indicates a missing sheet or label band.
	CodeNotFound
	// CodeAlreadyExists indicates a duplicate sheet, table, or chart id.
	CodeAlreadyExists
	// CodeUnsupportedAggregation indicates a summary aggregation outside
	// sum, avg, min, max, count.
	CodeUnsupportedAggregation
	// CodeUnsupportedMode indicates a formula mode other than "spreadsheet".
	CodeUnsupportedMode
)

var codeNames = map[Code]string{
	CodeOK:                     "OK",
	CodeUnknown:                "Unknown",
	CodeInvalidColumnLabel:     "InvalidColumnLabel",
	CodeInvalidCellReference:   "InvalidCellReference",
	CodeInvalidRangeFormat:     "InvalidRangeFormat",
	CodeUnexpectedCharacter:    "UnexpectedCharacter",
	CodeUnexpectedToken:        "UnexpectedToken",
	CodeUnknownFunction:        "UnknownFunction",
	CodeArityError:             "ArityError",
	CodeDomainError:            "DomainError",
	CodeDivisionByZero:         "DivisionByZero",
	CodeOutOfBounds:            "OutOfBounds",
	CodeScalarExpected:         "ScalarExpected",
	CodeUnknownTable:           "UnknownTable",
	CodeNotFound:               "NotFound",
	CodeAlreadyExists:          "AlreadyExists",
	CodeUnsupportedAggregation: "UnsupportedAggregation",
	CodeUnsupportedMode:        "UnsupportedMode",
}

// String returns the code's name.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// Error is the error type for everything this package reports. Definition-time
// operations return it to the caller; evaluation-time failures carry it
// through the evaluator until the write boundary turns them into the #ERROR
// cell sentinel.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newError creates an *Error with a formatted message.
func newError(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the classification code from an error. It returns CodeOK
// for nil and CodeUnknown for errors that did not originate here, unwrapping
// as needed.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
