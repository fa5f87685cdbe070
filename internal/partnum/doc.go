// Package partnum finds part numbers in OCR output.
//
// A part number is a run of 6 to 12 ASCII digits inside a line of text the
// OCR engine recognized with confidence above 0.5. Given engine detections:
//
//	("ABC123456DEF", 0.9)  -> text kept, candidate "123456"
//	("9999999999999", 0.8) -> text kept, no candidate (13 digits)
//	("12345", 0.95)        -> text kept, no candidate (5 digits)
//	("123456", 0.4)        -> dropped entirely
//
// The stages are exposed individually (Admit, DigitRuns, IsValidPartNumber,
// Extract, Aggregate) and chained by Pipeline, which also owns decoding and
// channel normalization through package imaging.
//
// Pipeline never panics or returns a bare error: every run yields an Outcome
// whose Err, when set, carries an ErrorCode the transport maps to a status.
//
// Digit runs are strict. "12 3456" is two runs, neither long enough; spaces
// inside a printed part number are not bridged.
package partnum
