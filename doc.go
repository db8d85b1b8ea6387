// Package nrfstream carries arbitrary-length byte payloads over radios that
// only move small fixed-size packets, nRF24-class links in particular.
//
// Ownership boundary:
// - the Radio transport contract
// - Link send/receive cycles over packed frame sequences
// - link Options and their TOML loader
//
// The wire contract itself (marker, hex index/count fields, trailing
// checksum) lives in internal/frame; the receive-side state machine lives in
// internal/reassembly.
package nrfstream
