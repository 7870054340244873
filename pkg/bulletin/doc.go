// Package bulletin normalizes loosely structured operation bulletins into
// [line.Operation] records.
//
// A bulletin is the spreadsheet an industrial engineer keeps per garment
// style: a table of operation numbers, descriptions, machine types and
// standard minute values, interleaved with section headers ("COLLAR",
// "Front Part") and subtotal rows. The layout of these sheets varies from
// factory to factory, so the normalizer never relies on fixed positions:
//
//   - The header row is located by matching cells against a [Field] alias
//     table within the first [HeaderScanRows] rows.
//   - Columns are resolved per field by normalized substring containment.
//   - Every row after the header is classified as a section header, a
//     totals row, an operation row or noise, in that order of precedence.
//   - Missing machine types are repaired by an ordered list of keyword
//     rules; unparseable SMV values become 0.
//
// [Normalize] works on an in-memory [Grid] and never touches the
// filesystem. Reading workbooks is the job of package sheet.
//
// # Errors
//
// Three failures are terminal and carry codes from pkg/errors:
// HEADER_NOT_FOUND, REQUIRED_COLUMN_MISSING and NO_OPERATIONS_FOUND. No
// partial operation list is returned alongside any of them.
package bulletin
