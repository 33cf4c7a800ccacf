// Package srs implements the review scheduling rules for flashcards.
//
// The scheduler is a simplified SM-2 variant with three ratings. Easy grows
// the interval by the ease factor, Medium keeps it, and Hard restarts it at
// one day. Every review reschedules the card relative to the review instant.
// All functions are pure and safe for concurrent use.
package srs
