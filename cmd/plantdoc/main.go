// Package main provides plantdoc, a command line client for the plant
// diagnosis API.
//
// Usage:
//
//	plantdoc health
//	plantdoc image leaf.jpg --plant-type domates
//	plantdoc diagnose --plant-type salatalik --symptom "beyaz toz tabaka"
//
// Set --server or PLANTDOC_SERVER to point at a non-local service.
package main

func main() {
	Execute()
}
