package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds line, style and cone numbers.
const maxIdentifierLength = 64

// ValidateIdentifier validates a line, style or cone number supplied by a
// user. Empty values are allowed; the field simply stays blank on the record.
//
// The validation rules are intentionally conservative:
//   - Maximum length of 64 characters
//   - No control characters or null bytes
//   - No path separators (identifiers end up in file names)
func ValidateIdentifier(field, value string) error {
	if len(value) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxIdentifierLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	if strings.ContainsAny(value, "/\\") {
		return New(ErrCodeInvalidInput, "%s cannot contain path separators", field)
	}
	return nil
}

// ValidateRecordID validates a record ID used to address stored lines.
func ValidateRecordID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "line id cannot be empty")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "line id cannot contain path traversal sequences (..)")
	}
	return ValidateIdentifier("line id", id)
}

// ValidateParameters rejects negative planning parameters. Zero is accepted
// because the balancer treats non-positive parameters as "no balancing".
func ValidateParameters(targetOutput int, workingHours float64) error {
	if targetOutput < 0 {
		return New(ErrCodeInvalidParameters, "target output cannot be negative: %d", targetOutput)
	}
	if workingHours < 0 {
		return New(ErrCodeInvalidParameters, "working hours cannot be negative: %v", workingHours)
	}
	if workingHours > 24 {
		return New(ErrCodeInvalidParameters, "working hours cannot exceed 24: %v", workingHours)
	}
	return nil
}

// ValidateWorkbookFilename validates the name of an uploaded bulletin.
// It must be a simple basename with a spreadsheet or grid extension.
func ValidateWorkbookFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidWorkbook, "workbook filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidWorkbook, "workbook filename cannot contain path separators")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".json", ".csv":
		return nil
	case ".xls":
		return New(ErrCodeUnsupported, "legacy .xls workbooks are not supported, save as .xlsx")
	}
	return New(ErrCodeInvalidWorkbook, "unsupported workbook type: %q", filepath.Ext(filename))
}
