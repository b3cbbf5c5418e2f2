// Package extract pulls an instruction model out of a C++ reference
// implementation. The reference file is expected to hold a free
// function whose body describes the instruction semantics; extraction
// captures the function name and the brace-delimited body as opaque
// text, without interpreting the C++ inside it.
package extract
