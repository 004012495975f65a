// Package builtin provides the tools exposed to the model: course content
// search, course outlines and a calculator.
package builtin
