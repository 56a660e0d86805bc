// Package modulation provides the modulation matrix and macro engine that
// drive parameter changes once per audio block: low-frequency oscillators
// and envelopes routed to parameter targets, and eight macro controls each
// fanning out to a list of curved parameter mappings.
package modulation
