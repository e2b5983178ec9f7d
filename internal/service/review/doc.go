// Package review drives study sessions on top of the SM-2 scheduler: it
// initializes learning state for cards and decks, lists due cards,
// applies submitted ratings atomically, and reports study statistics.
package review
