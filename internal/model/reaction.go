package model

import (
	"time"
)

// Emoji is one of the four fixed reaction categories.
type Emoji string

const (
	EmojiFire  Emoji = "🔥"
	EmojiFist  Emoji = "👊"
	EmojiParty Emoji = "🎉"
	EmojiHeart Emoji = "❤️"
)

// Emojis lists the categories in counter column order.
var Emojis = [4]Emoji{EmojiFire, EmojiFist, EmojiParty, EmojiHeart}

// ParseEmoji reports whether s is one of the four reaction categories.
func ParseEmoji(s string) (Emoji, bool) {
	switch e := Emoji(s); e {
	case EmojiFire, EmojiFist, EmojiParty, EmojiHeart:
		return e, true
	}
	return "", false
}

type Reaction struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Emoji     Emoji     `db:"emoji" json:"react_emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserReaction is a caller's own choice on one post.
type UserReaction struct {
	PostID string `db:"post_id" json:"post_id"`
	Emoji  Emoji  `db:"emoji" json:"react_emoji"`
}

// ReactionCounts mirrors the four cached counters stored on a post.
type ReactionCounts struct {
	Fire  int `db:"reaction_fire" json:"reaction_fire"`
	Fist  int `db:"reaction_fist" json:"reaction_fist"`
	Party int `db:"reaction_party" json:"reaction_party"`
	Heart int `db:"reaction_heart" json:"reaction_heart"`
}

func (c *ReactionCounts) counter(e Emoji) *int {
	switch e {
	case EmojiFire:
		return &c.Fire
	case EmojiFist:
		return &c.Fist
	case EmojiParty:
		return &c.Party
	case EmojiHeart:
		return &c.Heart
	}
	return nil
}

// Get returns the counter for e, or 0 for an unknown category.
func (c ReactionCounts) Get(e Emoji) int {
	p := c.counter(e)
	if p == nil {
		return 0
	}
	return *p
}

// Increment adds one to the counter for e.
func (c *ReactionCounts) Increment(e Emoji) {
	if p := c.counter(e); p != nil {
		*p++
	}
}

// Decrement subtracts one from the counter for e, never going below zero.
func (c *ReactionCounts) Decrement(e Emoji) {
	if p := c.counter(e); p != nil && *p > 0 {
		*p--
	}
}

func (c ReactionCounts) Total() int {
	return c.Fire + c.Fist + c.Party + c.Heart
}
